package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/repository"
)

// formatValidationErrors combines importer validation errors into one
// ErrInvalidInput.
func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("roster validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}

func notAuthorized(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrNotAuthorized)
}

// isNotFound reports a directory miss, which is not a store failure.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// filterDepartment keeps rows whose employee is in dept. Matching ignores
// case; an empty dept keeps everything.
func filterDepartment(rows []domain.DashboardRow, dept string) []domain.DashboardRow {
	dept = strings.TrimSpace(dept)
	if dept == "" {
		return rows
	}
	out := make([]domain.DashboardRow, 0, len(rows))
	for _, r := range rows {
		if strings.EqualFold(r.Employee.Department, dept) {
			out = append(out, r)
		}
	}
	return out
}

// rosterDepartments lists distinct departments in roster order.
func rosterDepartments(roster []*domain.Employee) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range roster {
		if e.Department == "" || seen[e.Department] {
			continue
		}
		seen[e.Department] = true
		out = append(out, e.Department)
	}
	return out
}
