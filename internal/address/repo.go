// Package address stores delivery addresses and keeps at most one default per user.
package address

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
)

var (
	// ErrNotFound covers both missing addresses and addresses owned by someone else.
	ErrNotFound = apperr.New(apperr.KindNotFound, "address_not_found", "address not found")
)

type Repository interface {
	List(ctx context.Context, userID string) ([]Address, error)
	Get(ctx context.Context, id, userID string) (*Address, error)
	Create(ctx context.Context, userID string, f Fields) (*Address, error)
	Update(ctx context.Context, id, userID string, f Fields) (*Address, error)
	Delete(ctx context.Context, id, userID string) error
	SetDefault(ctx context.Context, id, userID string) (*Address, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const addressColumns = `id, user_id, recipient_name, phone, line_one, line_two, is_default, created_at, updated_at`

func scanAddress(row pgx.CollectableRow) (Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.UserID, &a.RecipientName, &a.Phone, &a.LineOne, &a.LineTwo,
		&a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+addressColumns+`
		FROM addresses WHERE user_id = $1
		ORDER BY is_default DESC, created_at, id
	`, userID)
	if err != nil {
		return nil, apperr.Persistence(err, "list addresses")
	}
	out, err := pgx.CollectRows(rows, scanAddress)
	if err != nil {
		return nil, apperr.Persistence(err, "scan addresses")
	}
	return out, nil
}

func (r *PGRepo) Get(ctx context.Context, id, userID string) (*Address, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, apperr.Persistence(err, "query address")
	}
	a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.Persistence(err, "scan address")
	}
	return &a, nil
}

func (r *PGRepo) Create(ctx context.Context, userID string, f Fields) (*Address, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f = f.Normalize()

	var out *Address
	err := r.inTx(ctx, userID, f.IsDefault, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			INSERT INTO addresses (id, user_id, recipient_name, phone, line_one, line_two, is_default, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
			RETURNING `+addressColumns,
			uuid.NewString(), userID, f.RecipientName, f.Phone, f.LineOne, f.LineTwo, f.IsDefault)
		if err != nil {
			return apperr.Persistence(err, "insert address")
		}
		a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
		if err != nil {
			return apperr.Persistence(err, "scan address")
		}
		out = &a
		return nil
	})
	return out, err
}

// Update replaces the mutable fields. IsDefault=false only clears this row's flag.
func (r *PGRepo) Update(ctx context.Context, id, userID string, f Fields) (*Address, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f = f.Normalize()

	var out *Address
	err := r.inTx(ctx, userID, f.IsDefault, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE addresses
			SET recipient_name = $3, phone = $4, line_one = $5, line_two = $6,
			    is_default = $7, updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING `+addressColumns,
			id, userID, f.RecipientName, f.Phone, f.LineOne, f.LineTwo, f.IsDefault)
		if err != nil {
			return apperr.Persistence(err, "update address")
		}
		a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return apperr.Persistence(err, "scan address")
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *PGRepo) Delete(ctx context.Context, id, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperr.Persistence(err, "delete address")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetDefault(ctx context.Context, id, userID string) (*Address, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var out *Address
	err := r.inTx(ctx, userID, true, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE addresses SET is_default = TRUE, updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING `+addressColumns, id, userID)
		if err != nil {
			return apperr.Persistence(err, "set default address")
		}
		a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return apperr.Persistence(err, "scan address")
		}
		out = &a
		return nil
	})
	return out, err
}

// inTx runs fn in a transaction. When makeDefault is set, the user's row is
// locked first so concurrent default switches for the same user serialize,
// and every existing default is cleared before fn writes the new one.
func (r *PGRepo) inTx(ctx context.Context, userID string, makeDefault bool, fn func(tx pgx.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Persistence(err, "begin address tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if makeDefault {
		var locked string
		err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR NO KEY UPDATE`, userID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return apperr.Persistence(err, "lock user")
		}
		if _, err := tx.Exec(ctx, `
			SELECT id FROM addresses WHERE user_id = $1 ORDER BY id FOR UPDATE
		`, userID); err != nil {
			return apperr.Persistence(err, "lock addresses")
		}
		if _, err := tx.Exec(ctx, `
			UPDATE addresses SET is_default = FALSE, updated_at = NOW()
			WHERE user_id = $1 AND is_default
		`, userID); err != nil {
			return apperr.Persistence(err, "clear default address")
		}
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Persistence(err, "commit address tx")
	}
	return nil
}
