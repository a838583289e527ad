package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// A second run is a no-op.
	err := Migrate(db)
	require.NoError(t, err)

	// Third time for good measure.
	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"organizations", "employees", "worklog_entries"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_employees_org",
		"idx_worklog_org_date",
		"idx_worklog_employee_date",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeOnFileDB(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "wal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestWorklogEntries_RejectsOutOfRangeHour(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO worklog_entries (organization_id, employee_id, work_date, hour, status, note, updated_at)
		VALUES ('o', 'e', '2025-06-15', 24, 'pending', '', 1)`)
	assert.Error(t, err, "hour CHECK constraint should reject 24")
}

func TestWorklogEntries_RejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO worklog_entries (organization_id, employee_id, work_date, hour, status, note, updated_at)
		VALUES ('o', 'e', '2025-06-15', 3, 'done', '', 1)`)
	assert.Error(t, err, "status CHECK constraint should reject unknown values")
}

func TestWorklogEntries_CompositeKeyIsUnique(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO worklog_entries (organization_id, employee_id, work_date, hour, status, note, updated_at)
		VALUES ('o', 'e', '2025-06-15', 3, 'pending', '', 1)`
	_, err := db.Exec(insert)
	require.NoError(t, err)
	_, err = db.Exec(insert)
	assert.Error(t, err, "second insert on the same key should violate the primary key")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:", sqliteDSN(":memory:"))
	assert.True(t, IsMemory("file::memory:?cache=shared"))
	assert.Equal(t, "/tmp/t.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", sqliteDSN("/tmp/t.db"))
	assert.Equal(t, "t.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", sqliteDSN("t.db?mode=rwc"))
}
