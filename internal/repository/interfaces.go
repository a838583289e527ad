package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/threadlog/internal/domain"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// WorkLogRepo is the durable store of hour slots. Absent hours are never
// synthesized here.
type WorkLogRepo interface {
	// Upsert inserts or replaces the entry at its composite key unless the
	// stored entry has a later UpdatedAt. It returns the entry stored after
	// the write, which is e itself unless a newer write already landed.
	Upsert(ctx context.Context, e *domain.WorkLogEntry) (*domain.WorkLogEntry, error)
	Get(ctx context.Context, key domain.WorkLogKey) (*domain.WorkLogEntry, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]*domain.WorkLogEntry, error)
	ListByOrganizationAndDate(ctx context.Context, orgID string, date time.Time) ([]*domain.WorkLogEntry, error)
}

// EmployeeRepo is the employee directory.
type EmployeeRepo interface {
	Upsert(ctx context.Context, e *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	// ListByOrganization returns the roster ordered by position, then name.
	ListByOrganization(ctx context.Context, orgID string) ([]*domain.Employee, error)
}

type OrganizationRepo interface {
	Upsert(ctx context.Context, o *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
}

// GroupByEmployee buckets entries by employee ID.
func GroupByEmployee(entries []*domain.WorkLogEntry) map[string][]*domain.WorkLogEntry {
	out := make(map[string][]*domain.WorkLogEntry)
	for _, e := range entries {
		out[e.EmployeeID] = append(out[e.EmployeeID], e)
	}
	return out
}

var (
	_ WorkLogRepo      = (*SQLiteWorkLogRepo)(nil)
	_ WorkLogRepo      = (*PostgresWorkLogRepo)(nil)
	_ EmployeeRepo     = (*SQLiteEmployeeRepo)(nil)
	_ EmployeeRepo     = (*PostgresEmployeeRepo)(nil)
	_ OrganizationRepo = (*SQLiteOrganizationRepo)(nil)
	_ OrganizationRepo = (*PostgresOrganizationRepo)(nil)
)
