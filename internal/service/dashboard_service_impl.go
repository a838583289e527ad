package service

import (
	"context"
	"time"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/repository"
)

type dashboardService struct {
	store    repository.Store
	observer UseCaseObserver
}

func NewDashboardService(store repository.Store, observers ...UseCaseObserver) DashboardService {
	return &dashboardService{store: store, observer: useCaseObserverOrNoop(observers)}
}

func (s *dashboardService) Build(ctx context.Context, actor domain.Actor, req DashboardRequest) (dash *Dashboard, err error) {
	orgID := req.OrganizationID
	if orgID == "" {
		orgID = actor.OrganizationID
	}
	fields := map[string]any{"organization_id": orgID, "date": req.Date, "department": req.Department}
	defer observe(ctx, s.observer, "build-dashboard", time.Now(), fields, &err)

	if !actor.IsAdmin() || !actor.CanAccessOrganization(orgID) {
		return nil, notAuthorized("viewing dashboard for organization %q", orgID)
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	dash = &Dashboard{OrganizationID: orgID, Date: date, Department: req.Department}
	var rows []domain.DashboardRow
	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		roster, err := r.Employees.ListByOrganization(ctx, orgID)
		if err != nil {
			return err
		}
		entries, err := r.WorkLogs.ListByOrganizationAndDate(ctx, orgID, date)
		if err != nil {
			return err
		}
		rows = synthesizeRows(roster, date, entries)

		dash.Departments = rosterDepartments(roster)
		org, err := r.Organizations.GetByID(ctx, orgID)
		switch {
		case isNotFound(err):
		case err != nil:
			return err
		default:
			dash.OrganizationName = org.Name
			if len(org.Departments) > 0 {
				dash.Departments = org.Departments
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.StoreError("building dashboard", err)
	}

	dash.Rows = filterDepartment(rows, req.Department)
	dash.Summary = domain.Summarize(dash.Rows)
	fields["rows"] = len(dash.Rows)
	return dash, nil
}

func (s *dashboardService) QueryByOrganizationAndDate(ctx context.Context, orgID string, date time.Time) ([]domain.DashboardRow, error) {
	var rows []domain.DashboardRow
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		roster, err := r.Employees.ListByOrganization(ctx, orgID)
		if err != nil {
			return err
		}
		entries, err := r.WorkLogs.ListByOrganizationAndDate(ctx, orgID, date)
		if err != nil {
			return err
		}
		rows = synthesizeRows(roster, date, entries)
		return nil
	})
	if err != nil {
		return nil, domain.StoreError("querying organization day", err)
	}
	return rows, nil
}

// synthesizeRows builds one row per roster employee. Entries for employees
// missing from the roster are dropped.
func synthesizeRows(roster []*domain.Employee, date time.Time, entries []*domain.WorkLogEntry) []domain.DashboardRow {
	byEmployee := repository.GroupByEmployee(entries)
	rows := make([]domain.DashboardRow, 0, len(roster))
	for _, emp := range roster {
		rows = append(rows, domain.SynthesizeDay(*emp, date, byEmployee[emp.ID]))
	}
	return rows
}
