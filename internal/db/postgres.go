package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenPostgres connects a pgx pool, verifies it with a ping and applies the
// Postgres flavor of the schema.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if err := MigratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running postgres migrations: %w", err)
	}
	return pool, nil
}

// MigratePostgres runs the Postgres schema statements. All statements are
// idempotent.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range postgresMigrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migration %d: %w", i, err)
		}
	}
	return nil
}

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		departments TEXT NOT NULL DEFAULT '[]',
		created_at  TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS employees (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		department      TEXT NOT NULL DEFAULT '',
		thread_color    TEXT NOT NULL DEFAULT '',
		position        INTEGER NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS worklog_entries (
		organization_id TEXT NOT NULL,
		employee_id     TEXT NOT NULL,
		work_date       TEXT NOT NULL,
		hour            SMALLINT NOT NULL CHECK (hour BETWEEN 0 AND 23),
		status          TEXT NOT NULL DEFAULT 'pending'
		                CHECK (status IN ('pending','in-progress','completed','break')),
		note            TEXT NOT NULL DEFAULT '',
		updated_at      BIGINT NOT NULL,
		PRIMARY KEY (organization_id, employee_id, work_date, hour)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_employees_org ON employees(organization_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_worklog_org_date ON worklog_entries(organization_id, work_date)`,
	`CREATE INDEX IF NOT EXISTS idx_worklog_employee_date ON worklog_entries(employee_id, work_date)`,
}
