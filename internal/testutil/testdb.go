package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/threadlog/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory SQLite database that is closed with
// the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening in-memory database")
	t.Cleanup(func() { database.Close() })
	return database
}

// NewFileTestDB opens a migrated SQLite file in a temp directory. Every pooled
// connection sees the same data, so concurrent writers really contend.
func NewFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "threadlog_test.db")
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening file database")
	t.Cleanup(func() { database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
