package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/repository"
)

type workLogService struct {
	store    repository.Store
	notifier Notifier
	observer UseCaseObserver
	now      func() time.Time
}

func NewWorkLogService(store repository.Store, notifier Notifier, observers ...UseCaseObserver) WorkLogService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &workLogService{
		store:    store,
		notifier: notifier,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *workLogService) Upsert(ctx context.Context, actor domain.Actor, req UpsertRequest) (stored *domain.WorkLogEntry, err error) {
	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	fields := map[string]any{
		"organization_id": actor.OrganizationID,
		"employee_id":     employeeID,
		"hour":            req.Hour,
	}
	defer observe(ctx, s.observer, "upsert-worklog", time.Now(), fields, &err)

	if !actor.CanAccessEmployee(actor.OrganizationID, employeeID) {
		return nil, notAuthorized("logging hours for employee %q", employeeID)
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	entry, err := domain.NewWorkLogEntry(actor.OrganizationID, employeeID, date, req.Hour, status, req.Note, s.now())
	if err != nil {
		return nil, err
	}

	if employeeID != actor.EmployeeID {
		if err := s.checkDirectoryMember(ctx, actor.OrganizationID, employeeID); err != nil {
			return nil, err
		}
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		var txErr error
		stored, txErr = r.WorkLogs.Upsert(ctx, entry)
		return txErr
	})
	if err != nil {
		return nil, domain.StoreError("upserting work log entry", err)
	}

	// A write that lost to a newer one changed nothing worth announcing.
	if stored.UpdatedAt.Equal(entry.UpdatedAt) {
		fields["delivered"] = s.notifier.Publish(ctx, stored.OrganizationID, domain.NewChangeEvent(stored))
	}
	fields["status"] = string(stored.Status)
	return stored, nil
}

// checkDirectoryMember verifies an admin is writing for someone in their own
// organization.
func (s *workLogService) checkDirectoryMember(ctx context.Context, orgID, employeeID string) error {
	emp, err := s.store.Read().Employees.GetByID(ctx, employeeID)
	if isNotFound(err) {
		return &domain.ValidationError{Field: "employee_id", Message: fmt.Sprintf("unknown employee %q", employeeID)}
	}
	if err != nil {
		return domain.StoreError("looking up employee", err)
	}
	if emp.OrganizationID != orgID {
		return notAuthorized("employee %q belongs to another organization", employeeID)
	}
	return nil
}

func (s *workLogService) Day(ctx context.Context, actor domain.Actor, req DayRequest) (view *DayView, err error) {
	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	fields := map[string]any{"employee_id": employeeID, "date": req.Date}
	defer observe(ctx, s.observer, "employee-day", time.Now(), fields, &err)

	if !actor.CanAccessEmployee(actor.OrganizationID, employeeID) {
		return nil, notAuthorized("reading hours for employee %q", employeeID)
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	emp := domain.Employee{ID: employeeID, OrganizationID: actor.OrganizationID}
	var entries []*domain.WorkLogEntry
	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		found, err := r.Employees.GetByID(ctx, employeeID)
		switch {
		case isNotFound(err):
		case err != nil:
			return err
		case found.OrganizationID != actor.OrganizationID:
			return notAuthorized("employee %q belongs to another organization", employeeID)
		default:
			emp = *found
		}
		all, err := r.WorkLogs.ListByEmployeeAndDate(ctx, employeeID, date)
		if err != nil {
			return err
		}
		for _, e := range all {
			if e.OrganizationID == actor.OrganizationID {
				entries = append(entries, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.StoreError("reading employee day", err)
	}

	row := domain.SynthesizeDay(emp, date, entries)
	return &DayView{Row: row, Counts: row.Counts()}, nil
}
