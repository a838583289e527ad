package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/threadlog/internal/importer"
	"github.com/alexanderramin/threadlog/internal/repository"
)

type rosterService struct {
	store    repository.Store
	observer UseCaseObserver
}

func NewRosterService(store repository.Store, observers ...UseCaseObserver) RosterService {
	return &rosterService{store: store, observer: useCaseObserverOrNoop(observers)}
}

func (s *rosterService) ImportRoster(ctx context.Context, filePath string) (*ImportResult, error) {
	roster, err := importer.LoadRoster(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading roster file: %w", err)
	}
	return s.ImportRosterFromSchema(ctx, roster)
}

// ImportRosterFromSchema upserts the organization and every employee in one
// transaction; a failure leaves the directory untouched.
func (s *rosterService) ImportRosterFromSchema(ctx context.Context, roster *importer.Roster) (result *ImportResult, err error) {
	fields := map[string]any{"organization_id": roster.Organization.ID}
	defer observe(ctx, s.observer, "import-roster", time.Now(), fields, &err)

	if errs := importer.ValidateRoster(roster); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	converted := importer.Convert(roster)

	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Organizations.Upsert(ctx, converted.Organization); err != nil {
			return fmt.Errorf("creating organization: %w", err)
		}
		for _, e := range converted.Employees {
			if err := r.Employees.Upsert(ctx, e); err != nil {
				return fmt.Errorf("creating employee %q: %w", e.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["employee_count"] = len(converted.Employees)
	return &ImportResult{
		Organization:  converted.Organization,
		EmployeeCount: len(converted.Employees),
	}, nil
}
