package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testPositionCounter atomic.Int64

// TestDay is the calendar day most fixtures log against.
var TestDay = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

// Organization options
type OrgOption func(*domain.Organization)

func WithDepartments(d ...string) OrgOption {
	return func(o *domain.Organization) {
		o.Departments = d
	}
}

func NewTestOrganization(name string, opts ...OrgOption) *domain.Organization {
	o := &domain.Organization{
		ID:          uuid.New().String(),
		Name:        name,
		Departments: []string{"Engineering"},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Employee options
type EmployeeOption func(*domain.Employee)

func WithDepartment(d string) EmployeeOption {
	return func(e *domain.Employee) {
		e.Department = d
	}
}

func WithThreadColor(c string) EmployeeOption {
	return func(e *domain.Employee) {
		e.ThreadColor = c
	}
}

func WithPosition(p int) EmployeeOption {
	return func(e *domain.Employee) {
		e.Position = p
	}
}

func NewTestEmployee(orgID, name string, opts ...EmployeeOption) *domain.Employee {
	e := &domain.Employee{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           name,
		Department:     "Engineering",
		ThreadColor:    "#3B82F6",
		Position:       int(testPositionCounter.Add(1)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Entry options
type EntryOption func(*domain.WorkLogEntry)

func WithNote(n string) EntryOption {
	return func(e *domain.WorkLogEntry) {
		e.Note = n
	}
}

func WithDate(d time.Time) EntryOption {
	return func(e *domain.WorkLogEntry) {
		e.Date = domain.NormalizeDate(d)
	}
}

func WithUpdatedAt(t time.Time) EntryOption {
	return func(e *domain.WorkLogEntry) {
		e.UpdatedAt = t.UTC()
	}
}

func NewTestEntry(emp *domain.Employee, hour int, status domain.Status, opts ...EntryOption) *domain.WorkLogEntry {
	e := &domain.WorkLogEntry{
		OrganizationID: emp.OrganizationID,
		EmployeeID:     emp.ID,
		Date:           TestDay,
		Hour:           hour,
		Status:         status,
		UpdatedAt:      time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OrganizationStore and EmployeeStore are the repository methods SeedRoster
// writes through.
type OrganizationStore interface {
	Upsert(ctx context.Context, o *domain.Organization) error
}

type EmployeeStore interface {
	Upsert(ctx context.Context, e *domain.Employee) error
}

// SeedRoster stores org and one employee per name, returning the employees in
// roster order.
func SeedRoster(t *testing.T, orgs OrganizationStore, emps EmployeeStore, org *domain.Organization, names ...string) []*domain.Employee {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, orgs.Upsert(ctx, org))
	employees := make([]*domain.Employee, 0, len(names))
	for i, name := range names {
		e := NewTestEmployee(org.ID, name, WithPosition(i))
		require.NoError(t, emps.Upsert(ctx, e), fmt.Sprintf("seeding %s", name))
		employees = append(employees, e)
	}
	return employees
}
