package service

import (
	"context"
	"time"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/importer"
)

// Notifier receives an event for every accepted hour update. Delivery is
// best-effort and never fails the write.
type Notifier interface {
	Publish(ctx context.Context, orgID string, ev domain.ChangeEvent) int
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, string, domain.ChangeEvent) int { return 0 }

// UpsertRequest sets one hour slot. EmployeeID defaults to the actor.
type UpsertRequest struct {
	EmployeeID string
	Date       string
	Hour       int
	Status     string
	Note       string
}

type DayRequest struct {
	EmployeeID string
	Date       string
}

// DayView is one employee's 24 slots plus per-status counts.
type DayView struct {
	Row    domain.DashboardRow
	Counts domain.StatusCounts
}

type WorkLogService interface {
	Upsert(ctx context.Context, actor domain.Actor, req UpsertRequest) (*domain.WorkLogEntry, error)
	Day(ctx context.Context, actor domain.Actor, req DayRequest) (*DayView, error)
}

// DashboardRequest selects an organization's day. OrganizationID defaults to
// the actor's; an empty Department means every department.
type DashboardRequest struct {
	OrganizationID string
	Date           string
	Department     string
}

type Dashboard struct {
	OrganizationID   string
	OrganizationName string
	Date             time.Time
	Department       string
	Departments      []string
	Rows             []domain.DashboardRow
	Summary          domain.DashboardSummary
}

type DashboardService interface {
	Build(ctx context.Context, actor domain.Actor, req DashboardRequest) (*Dashboard, error)
	// QueryByOrganizationAndDate returns one row per roster employee, in
	// roster order, with absent hours filled as pending. No access check.
	QueryByOrganizationAndDate(ctx context.Context, orgID string, date time.Time) ([]domain.DashboardRow, error)
}

// ImportResult holds the outcome of a roster import.
type ImportResult struct {
	Organization  *domain.Organization
	EmployeeCount int
}

type RosterService interface {
	ImportRoster(ctx context.Context, filePath string) (*ImportResult, error)
	ImportRosterFromSchema(ctx context.Context, roster *importer.Roster) (*ImportResult, error)
}
