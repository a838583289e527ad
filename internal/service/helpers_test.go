package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/repository"
)

func TestFilterDepartment(t *testing.T) {
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	rows := []domain.DashboardRow{
		domain.SynthesizeDay(domain.Employee{ID: "ada", Department: "Engineering"}, day, nil),
		domain.SynthesizeDay(domain.Employee{ID: "grace", Department: "Design"}, day, nil),
	}

	assert.Len(t, filterDepartment(rows, ""), 2, "empty keeps everything")
	assert.Len(t, filterDepartment(rows, "   "), 2)

	got := filterDepartment(rows, " engineering ")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "ada", got[0].Employee.ID)
	}
	assert.Empty(t, filterDepartment(rows, "Sales"))
}

func TestRosterDepartments_FirstSeenOrder(t *testing.T) {
	roster := []*domain.Employee{
		{ID: "a", Department: "Design"},
		{ID: "b", Department: "Engineering"},
		{ID: "c", Department: "Design"},
		{ID: "d"},
	}
	assert.Equal(t, []string{"Design", "Engineering"}, rosterDepartments(roster))
}

func TestErrorHelpers(t *testing.T) {
	assert.ErrorIs(t, notAuthorized("reading %q", "ada"), domain.ErrNotAuthorized)
	assert.True(t, isNotFound(fmt.Errorf("employee: %w", repository.ErrNotFound)))
	assert.False(t, isNotFound(domain.ErrStoreUnavailable))

	err := formatValidationErrors([]error{fmt.Errorf("first"), fmt.Errorf("second")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "2 errors")
	assert.Contains(t, err.Error(), "second")
}
