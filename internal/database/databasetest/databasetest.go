// Package databasetest opens throwaway ledger databases for store tests.
package databasetest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledger/internal/database"
)

// New returns a bootstrapped SQLite database in a temp dir that is closed when the test ends.
// A file is used instead of :memory: because migrations run on a second connection.
func New(t *testing.T) *database.DB {
	t.Helper()

	db := NewEmpty(t)
	require.NoError(t, db.Bootstrap(context.Background()))

	return db
}

// NewEmpty is New without the bootstrap step.
func NewEmpty(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")

	db, err := database.New(database.SQLite, database.SQLiteDSN(path))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

// MustExec runs a raw statement, for fixtures the stores do not expose.
func MustExec(t *testing.T, db *database.DB, query string, args ...any) {
	t.Helper()

	_, err := db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err, fmt.Sprintf("exec %q", query))
}
