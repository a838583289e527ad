package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/threadlog/internal/db"
	"github.com/alexanderramin/threadlog/internal/domain"
)

// SQLiteWorkLogRepo implements WorkLogRepo using a SQLite database.
type SQLiteWorkLogRepo struct {
	db db.DBTX
}

// NewSQLiteWorkLogRepo creates a new SQLiteWorkLogRepo.
func NewSQLiteWorkLogRepo(conn db.DBTX) *SQLiteWorkLogRepo {
	return &SQLiteWorkLogRepo{db: conn}
}

const worklogColumns = `organization_id, employee_id, work_date, hour, status, note, updated_at`

func (r *SQLiteWorkLogRepo) Upsert(ctx context.Context, e *domain.WorkLogEntry) (*domain.WorkLogEntry, error) {
	query := `INSERT INTO worklog_entries (` + worklogColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (organization_id, employee_id, work_date, hour) DO UPDATE SET
			status     = excluded.status,
			note       = excluded.note,
			updated_at = excluded.updated_at
		WHERE excluded.updated_at >= worklog_entries.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		e.OrganizationID,
		e.EmployeeID,
		dateKey(e.Date),
		e.Hour,
		string(e.Status),
		e.Note,
		e.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return nil, domain.StoreError("upserting work log entry", err)
	}
	stored, err := r.Get(ctx, e.Key())
	if err != nil {
		return nil, domain.StoreError("reading back work log entry", err)
	}
	return stored, nil
}

func (r *SQLiteWorkLogRepo) Get(ctx context.Context, key domain.WorkLogKey) (*domain.WorkLogEntry, error) {
	query := `SELECT ` + worklogColumns + ` FROM worklog_entries
		WHERE organization_id = ? AND employee_id = ? AND work_date = ? AND hour = ?`
	row := r.db.QueryRowContext(ctx, query, key.OrganizationID, key.EmployeeID, dateKey(key.Date), key.Hour)

	var raw worklogRow
	if err := row.Scan(raw.dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work log entry: %w", ErrNotFound)
		}
		return nil, domain.StoreError("scanning work log entry", err)
	}
	return raw.entry()
}

func (r *SQLiteWorkLogRepo) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]*domain.WorkLogEntry, error) {
	query := `SELECT ` + worklogColumns + ` FROM worklog_entries
		WHERE employee_id = ? AND work_date = ? ORDER BY hour`
	rows, err := r.db.QueryContext(ctx, query, employeeID, dateKey(date))
	if err != nil {
		return nil, domain.StoreError("listing work log by employee", err)
	}
	defer rows.Close()
	return scanWorkLogRows(rows)
}

func (r *SQLiteWorkLogRepo) ListByOrganizationAndDate(ctx context.Context, orgID string, date time.Time) ([]*domain.WorkLogEntry, error) {
	query := `SELECT ` + worklogColumns + ` FROM worklog_entries
		WHERE organization_id = ? AND work_date = ? ORDER BY employee_id, hour`
	rows, err := r.db.QueryContext(ctx, query, orgID, dateKey(date))
	if err != nil {
		return nil, domain.StoreError("listing work log by organization", err)
	}
	defer rows.Close()
	return scanWorkLogRows(rows)
}

// worklogRow holds raw column values before conversion to domain types.
type worklogRow struct {
	orgID, employeeID, workDate string
	hour                        int
	status, note                string
	updatedAt                   int64
}

func (w *worklogRow) dest() []any {
	return []any{&w.orgID, &w.employeeID, &w.workDate, &w.hour, &w.status, &w.note, &w.updatedAt}
}

func (w *worklogRow) entry() (*domain.WorkLogEntry, error) {
	date, err := parseDateKey(w.workDate)
	if err != nil {
		return nil, fmt.Errorf("parsing work_date: %w", err)
	}
	return &domain.WorkLogEntry{
		OrganizationID: w.orgID,
		EmployeeID:     w.employeeID,
		Date:           date,
		Hour:           w.hour,
		Status:         domain.Status(w.status),
		Note:           w.note,
		UpdatedAt:      nanosToTime(w.updatedAt),
	}, nil
}

// scanWorkLogRows scans multiple entries from *sql.Rows.
func scanWorkLogRows(rows *sql.Rows) ([]*domain.WorkLogEntry, error) {
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
		return nil, domain.StoreError("iterating work log rows", err)
	}
	return entries, nil
}
