package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/threadlog/internal/db"
	"github.com/alexanderramin/threadlog/internal/domain"
)

// SQLiteEmployeeRepo implements EmployeeRepo using a SQLite database.
type SQLiteEmployeeRepo struct {
	db db.DBTX
}

// NewSQLiteEmployeeRepo creates a new SQLiteEmployeeRepo.
func NewSQLiteEmployeeRepo(conn db.DBTX) *SQLiteEmployeeRepo {
	return &SQLiteEmployeeRepo{db: conn}
}

func (r *SQLiteEmployeeRepo) Upsert(ctx context.Context, e *domain.Employee) error {
	query := `INSERT INTO employees (id, organization_id, name, department, thread_color, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			organization_id = excluded.organization_id,
			name            = excluded.name,
			department      = excluded.department,
			thread_color    = excluded.thread_color,
			position        = excluded.position`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.OrganizationID,
		e.Name,
		e.Department,
		e.ThreadColor,
		e.Position,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting employee: %w", err)
	}
	return nil
}

func (r *SQLiteEmployeeRepo) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT id, organization_id, name, department, thread_color, position
		FROM employees WHERE id = ?`
	var e domain.Employee
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.OrganizationID, &e.Name, &e.Department, &e.ThreadColor, &e.Position,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("employee: %w", ErrNotFound)
		}
		return nil, domain.StoreError("scanning employee", err)
	}
	return &e, nil
}

func (r *SQLiteEmployeeRepo) ListByOrganization(ctx context.Context, orgID string) ([]*domain.Employee, error) {
	query := `SELECT id, organization_id, name, department, thread_color, position
		FROM employees WHERE organization_id = ? ORDER BY position, name, id`
	rows, err := r.db.QueryContext(ctx, query, orgID)
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

// SQLiteOrganizationRepo implements OrganizationRepo using a SQLite database.
type SQLiteOrganizationRepo struct {
	db db.DBTX
}

// NewSQLiteOrganizationRepo creates a new SQLiteOrganizationRepo.
func NewSQLiteOrganizationRepo(conn db.DBTX) *SQLiteOrganizationRepo {
	return &SQLiteOrganizationRepo{db: conn}
}

func (r *SQLiteOrganizationRepo) Upsert(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO organizations (id, name, departments, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name        = excluded.name,
			departments = excluded.departments`
	_, err := r.db.ExecContext(ctx, query, o.ID, o.Name, encodeStrings(o.Departments), nowUTC())
	if err != nil {
		return fmt.Errorf("upserting organization: %w", err)
	}
	return nil
}

func (r *SQLiteOrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `SELECT id, name, departments FROM organizations WHERE id = ?`
	var o domain.Organization
	var departments string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.Name, &departments); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organization: %w", ErrNotFound)
		}
		return nil, domain.StoreError("scanning organization", err)
	}
	o.Departments = decodeStrings(departments)
	return &o, nil
}
