package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/choco?sslmode=disable", migrateURL("postgres://u:p@db:5432/choco?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/choco", migrateURL("postgresql://u@db/choco"))
	assert.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}
