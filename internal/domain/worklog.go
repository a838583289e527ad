package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// WorkLogKey identifies one hour slot of one employee's day.
type WorkLogKey struct {
	OrganizationID string
	EmployeeID     string
	Date           time.Time
	Hour           int
}

// WorkLogEntry is the stored self-report for a single hour.
type WorkLogEntry struct {
	OrganizationID string
	EmployeeID     string
	Date           time.Time // midnight UTC
	Hour           int
	Status         Status
	Note           string
	UpdatedAt      time.Time
}

func (e *WorkLogEntry) Key() WorkLogKey {
	return WorkLogKey{
		OrganizationID: e.OrganizationID,
		EmployeeID:     e.EmployeeID,
		Date:           e.Date,
		Hour:           e.Hour,
	}
}

// DateString returns the entry date in YYYY-MM-DD form.
func (e *WorkLogEntry) DateString() string {
	return e.Date.Format(DateLayout)
}

// NewWorkLogEntry validates the raw fields of an hour update and returns the
// entry to write. The returned entry is stamped with now.
func NewWorkLogEntry(orgID, employeeID string, date time.Time, hour int, status Status, note string, now time.Time) (*WorkLogEntry, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, &ValidationError{Field: "organization_id", Message: "is required"}
	}
	if strings.TrimSpace(employeeID) == "" {
		return nil, &ValidationError{Field: "employee_id", Message: "is required"}
	}
	if date.IsZero() {
		return nil, &ValidationError{Field: "date", Message: "is required"}
	}
	if err := ValidateHour(hour); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "must be one of pending, in-progress, completed, break"}
	}
	if utf8.RuneCountInString(note) > MaxNoteLen {
		return nil, &ValidationError{Field: "note", Message: "is too long"}
	}
	return &WorkLogEntry{
		OrganizationID: orgID,
		EmployeeID:     employeeID,
		Date:           NormalizeDate(date),
		Hour:           hour,
		Status:         status,
		Note:           note,
		UpdatedAt:      now.UTC(),
	}, nil
}

// Supersedes reports whether e should replace stored under last-write-wins.
// Equal timestamps resolve in favor of the incoming write.
func (e *WorkLogEntry) Supersedes(stored *WorkLogEntry) bool {
	if stored == nil {
		return true
	}
	return !e.UpdatedAt.Before(stored.UpdatedAt)
}

// PendingEntry is the implicit value of an hour nobody has written.
func PendingEntry(orgID, employeeID string, date time.Time, hour int) WorkLogEntry {
	return WorkLogEntry{
		OrganizationID: orgID,
		EmployeeID:     employeeID,
		Date:           NormalizeDate(date),
		Hour:           hour,
		Status:         StatusPending,
	}
}

func ValidateHour(hour int) error {
	if hour < 0 || hour >= HoursPerDay {
		return &ValidationError{Field: "hour", Message: "must be between 0 and 23"}
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &ValidationError{Field: "date", Message: "is required"}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: "must be formatted YYYY-MM-DD"}
	}
	return t, nil
}

// NormalizeDate drops the time of day, keeping the calendar day as seen in t's
// own location.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
