package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/redline?sslmode=disable", migrationURL("postgres://u:p@localhost:5432/redline?sslmode=disable"))
	assert.Equal(t, "pgx5://h/db", migrationURL("postgresql://h/db"))
	assert.Equal(t, "pgx5://h/db", migrationURL("pgx5://h/db"))
}

func TestMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Equal(t, len(ups), len(downs))
}
