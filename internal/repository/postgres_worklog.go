package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alexanderramin/threadlog/internal/db"
	"github.com/alexanderramin/threadlog/internal/domain"
)

// PostgresWorkLogRepo implements WorkLogRepo on Postgres through pgx.
type PostgresWorkLogRepo struct {
	db db.PgxDBTX
}

func NewPostgresWorkLogRepo(conn db.PgxDBTX) *PostgresWorkLogRepo {
	return &PostgresWorkLogRepo{db: conn}
}

func (r *PostgresWorkLogRepo) Upsert(ctx context.Context, e *domain.WorkLogEntry) (*domain.WorkLogEntry, error) {
	// RETURNING yields nothing when the stored row is newer, so the winner is
	// read back separately in that case.
	query := `INSERT INTO worklog_entries (` + worklogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (organization_id, employee_id, work_date, hour) DO UPDATE SET
			status     = EXCLUDED.status,
			note       = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
		WHERE EXCLUDED.updated_at >= worklog_entries.updated_at
		RETURNING ` + worklogColumns
	row := r.db.QueryRow(ctx, query,
		e.OrganizationID,
		e.EmployeeID,
		dateKey(e.Date),
		e.Hour,
		string(e.Status),
		e.Note,
		e.UpdatedAt.UnixNano(),
	)
	var raw worklogRow
	err := row.Scan(raw.dest()...)
	if errors.Is(err, pgx.ErrNoRows) {
		stored, getErr := r.Get(ctx, e.Key())
		if getErr != nil {
			return nil, domain.StoreError("reading back work log entry", getErr)
		}
		return stored, nil
	}
	if err != nil {
		return nil, domain.StoreError("upserting work log entry", err)
	}
	return raw.entry()
}

func (r *PostgresWorkLogRepo) Get(ctx context.Context, key domain.WorkLogKey) (*domain.WorkLogEntry, error) {
	query := `SELECT ` + worklogColumns + ` FROM worklog_entries
		WHERE organization_id = $1 AND employee_id = $2 AND work_date = $3 AND hour = $4`
	var raw worklogRow
	err := r.db.QueryRow(ctx, query, key.OrganizationID, key.EmployeeID, dateKey(key.Date), key.Hour).Scan(raw.dest()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("work log entry: %w", ErrNotFound)
		}
		return nil, domain.StoreError("scanning work log entry", err)
	}
	return raw.entry()
}

func (r *PostgresWorkLogRepo) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]*domain.WorkLogEntry, error) {
	query := `SELECT ` + worklogColumns + ` FROM worklog_entries
		WHERE employee_id = $1 AND work_date = $2 ORDER BY hour`
	return r.list(ctx, "listing work log by employee", query, employeeID, dateKey(date))
}

func (r *PostgresWorkLogRepo) ListByOrganizationAndDate(ctx context.Context, orgID string, date time.Time) ([]*domain.WorkLogEntry, error) {
	query := `SELECT ` + worklogColumns + ` FROM worklog_entries
		WHERE organization_id = $1 AND work_date = $2 ORDER BY employee_id, hour`
	return r.list(ctx, "listing work log by organization", query, orgID, dateKey(date))
}

func (r *PostgresWorkLogRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.WorkLogEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError(op, err)
	}
	defer rows.Close()

	var entries []*domain.WorkLogEntry
	for rows.Next() {
		var raw worklogRow
		if err := rows.Scan(raw.dest()...); err != nil {
			return nil, domain.StoreError("scanning work log row", err)
		}
		e, err := raw.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError(op, err)
	}
	return entries, nil
}

// PostgresEmployeeRepo implements EmployeeRepo on Postgres through pgx.
type PostgresEmployeeRepo struct {
	db db.PgxDBTX
}

func NewPostgresEmployeeRepo(conn db.PgxDBTX) *PostgresEmployeeRepo {
	return &PostgresEmployeeRepo{db: conn}
}

func (r *PostgresEmployeeRepo) Upsert(ctx context.Context, e *domain.Employee) error {
	query := `INSERT INTO employees (id, organization_id, name, department, thread_color, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			organization_id = EXCLUDED.organization_id,
			name            = EXCLUDED.name,
			department      = EXCLUDED.department,
			thread_color    = EXCLUDED.thread_color,
			position        = EXCLUDED.position`
	if _, err := r.db.Exec(ctx, query, e.ID, e.OrganizationID, e.Name, e.Department, e.ThreadColor, e.Position); err != nil {
		return fmt.Errorf("upserting employee: %w", err)
	}
	return nil
}

func (r *PostgresEmployeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT id, organization_id, name, department, thread_color, position
		FROM employees WHERE id = $1`
	var e domain.Employee
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.OrganizationID, &e.Name, &e.Department, &e.ThreadColor, &e.Position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("employee: %w", ErrNotFound)
		}
		return nil, domain.StoreError("scanning employee", err)
	}
	return &e, nil
}

func (r *PostgresEmployeeRepo) ListByOrganization(ctx context.Context, orgID string) ([]*domain.Employee, error) {
	query := `SELECT id, organization_id, name, department, thread_color, position
		FROM employees WHERE organization_id = $1 ORDER BY position, name, id`
	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, domain.StoreError("listing employees", err)
	}
	defer rows.Close()

	var employees []*domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.Name, &e.Department, &e.ThreadColor, &e.Position); err != nil {
			return nil, domain.StoreError("scanning employee row", err)
		}
		employees = append(employees, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("iterating employees", err)
	}
	return employees, nil
}

// PostgresOrganizationRepo implements OrganizationRepo on Postgres through pgx.
type PostgresOrganizationRepo struct {
	db db.PgxDBTX
}

func NewPostgresOrganizationRepo(conn db.PgxDBTX) *PostgresOrganizationRepo {
	return &PostgresOrganizationRepo{db: conn}
}

func (r *PostgresOrganizationRepo) Upsert(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO organizations (id, name, departments, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			name        = EXCLUDED.name,
			departments = EXCLUDED.departments`
	if _, err := r.db.Exec(ctx, query, o.ID, o.Name, encodeStrings(o.Departments)); err != nil {
		return fmt.Errorf("upserting organization: %w", err)
	}
	return nil
}

func (r *PostgresOrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `SELECT id, name, departments FROM organizations WHERE id = $1`
	var o domain.Organization
	var departments string
	if err := r.db.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &departments); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("organization: %w", ErrNotFound)
		}
		return nil, domain.StoreError("scanning organization", err)
	}
	o.Departments = decodeStrings(departments)
	return &o, nil
}
