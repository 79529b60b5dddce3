// Package pgtest starts a throwaway PostgreSQL container for repository tests.
package pgtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MikeMC777/choco-delisias/internal/postgres"
)

// New returns a migrated pool backed by a fresh container. The test is
// skipped under -short or when no container runtime is available.
func New(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("choco"),
		tcpostgres.WithUsername("choco"),
		tcpostgres.WithPassword("choco"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(dsn))

	pool, err := postgres.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// User inserts a user row and returns its id.
func User(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	id := uuid.NewString()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, 'x')
	`, id, "Cliente "+id[:8], id+"@example.pe")
	require.NoError(t, err)
	return id
}

// Product inserts an active product priced at price (a decimal string) and returns its id.
func Product(t *testing.T, pool *pgxpool.Pool, name, price string) int64 {
	t.Helper()
	ctx := context.Background()
	var catID int64
	require.NoError(t, pool.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ('Trufas')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`).Scan(&catID))

	var id int64
	require.NoError(t, pool.QueryRow(ctx, `
		INSERT INTO products (category_id, name, price) VALUES ($1, $2, $3::numeric)
		RETURNING id
	`, catID, name, price).Scan(&id))
	return id
}

// Address inserts an address owned by userID and returns its id.
func Address(t *testing.T, pool *pgxpool.Pool, userID string, isDefault bool) string {
	t.Helper()
	id := uuid.NewString()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO addresses (id, user_id, recipient_name, phone, line_one, is_default)
		VALUES ($1, $2, 'Ana Quispe', '+51 999 888 777', 'Av. Larco 123', $3)
	`, id, userID, isDefault)
	require.NoError(t, err)
	return id
}
