package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		departments TEXT NOT NULL DEFAULT '[]',
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS employees (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		department      TEXT NOT NULL DEFAULT '',
		thread_color    TEXT NOT NULL DEFAULT '',
		position        INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL
	)`,

	// One row per (organization, employee, day, hour). updated_at holds Unix
	// nanoseconds so last-write-wins can compare integers.
	`CREATE TABLE IF NOT EXISTS worklog_entries (
		organization_id TEXT NOT NULL,
		employee_id     TEXT NOT NULL,
		work_date       TEXT NOT NULL,
		hour            INTEGER NOT NULL CHECK(hour BETWEEN 0 AND 23),
		status          TEXT NOT NULL DEFAULT 'pending'
		                CHECK(status IN ('pending','in-progress','completed','break')),
		note            TEXT NOT NULL DEFAULT '',
		updated_at      INTEGER NOT NULL,
		PRIMARY KEY (organization_id, employee_id, work_date, hour)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_employees_org ON employees(organization_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_worklog_org_date ON worklog_entries(organization_id, work_date)`,
	`CREATE INDEX IF NOT EXISTS idx_worklog_employee_date ON worklog_entries(employee_id, work_date)`,
}
