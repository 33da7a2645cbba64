package database_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledger/internal/database"
	"github.com/MrJamesThe3rd/ledger/internal/database/databasetest"
)

func TestRebind(t *testing.T) {
	type testCase struct {
		name    string
		dialect database.Dialect
		query   string
		want    string
	}

	tests := []testCase{
		{
			name:    "SQLiteUntouched",
			dialect: database.SQLite,
			query:   "SELECT * FROM records WHERE id = ? AND type = ?",
			want:    "SELECT * FROM records WHERE id = ? AND type = ?",
		},
		{
			name:    "PostgresNumbered",
			dialect: database.Postgres,
			query:   "SELECT * FROM records WHERE id = ? AND type = ?",
			want:    "SELECT * FROM records WHERE id = $1 AND type = $2",
		},
		{
			name:    "PostgresNoPlaceholders",
			dialect: database.Postgres,
			query:   "SELECT 1",
			want:    "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, database.Rebind(tt.dialect, tt.query))
		})
	}
}

func TestParseDialect(t *testing.T) {
	d, err := database.ParseDialect("")
	require.NoError(t, err)
	assert.Equal(t, database.SQLite, d)

	d, err = database.ParseDialect("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, database.Postgres, d)

	_, err = database.ParseDialect("oracle")
	assert.Error(t, err)
}

func countMethods(t *testing.T, db *database.DB) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(1) FROM payment_methods`).Scan(&n))

	return n
}

func TestBootstrap_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	db := databasetest.NewEmpty(t)

	require.NoError(t, db.Bootstrap(ctx))
	assert.Equal(t, len(database.DefaultPaymentMethods), countMethods(t, db))

	require.NoError(t, db.Bootstrap(ctx))
	assert.Equal(t, len(database.DefaultPaymentMethods), countMethods(t, db))
}

func TestBootstrap_ReseedsAfterAllDeleted(t *testing.T) {
	ctx := context.Background()
	db := databasetest.New(t)

	databasetest.MustExec(t, db, `DELETE FROM payment_methods`)
	assert.Equal(t, 0, countMethods(t, db))

	require.NoError(t, db.Bootstrap(ctx))
	assert.Equal(t, 3, countMethods(t, db))
}

func TestBootstrap_KeepsCustomMethods(t *testing.T) {
	ctx := context.Background()
	db := databasetest.NewEmpty(t)

	require.NoError(t, db.Migrate())
	databasetest.MustExec(t, db, `INSERT INTO payment_methods (name) VALUES (?)`, "Card")

	require.NoError(t, db.Bootstrap(ctx))
	assert.Equal(t, 1, countMethods(t, db))
}

func TestSQLiteDSN(t *testing.T) {
	dsn := database.SQLiteDSN("/tmp/ledger.db")
	assert.Contains(t, dsn, "file:/tmp/ledger.db?")
	assert.Contains(t, dsn, "foreign_keys")

	dsn = database.SQLiteDSN("/tmp/a?b#c 1%.db")
	assert.True(t, strings.HasPrefix(dsn, "file:/tmp/a%3Fb%23c%201%25.db?"), dsn)
}

func TestNew_SQLitePathWithReservedCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my?ledger#1.db")

	db, err := database.New(database.SQLite, database.SQLiteDSN(path))
	require.NoError(t, err)
	require.NoError(t, db.Bootstrap(context.Background()))
	require.NoError(t, db.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
