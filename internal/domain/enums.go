package domain

import "strings"

// Status is the self-reported state of one hour slot. Any status may move to
// any other; the most recent write wins.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusBreak      Status = "break"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusBreak}

// ValidStatuses is the canonical set of accepted status strings.
var ValidStatuses = map[string]bool{
	"pending": true, "in-progress": true, "completed": true, "break": true,
}

// ParseStatus returns the Status spelled exactly as s. The underscore
// spelling "in_progress" is accepted as an alias.
func ParseStatus(s string) (Status, error) {
	v := s
	if v == "in_progress" {
		v = string(StatusInProgress)
	}
	if !ValidStatuses[v] {
		return "", &ValidationError{Field: "status", Message: "must be one of pending, in-progress, completed, break"}
	}
	return Status(v), nil
}

func (s Status) Valid() bool { return ValidStatuses[string(s)] }

// IsActive reports whether the hour counts toward "active" roll-ups.
func (s Status) IsActive() bool { return s != StatusPending }

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

const (
	HoursPerDay = 24
	MaxNoteLen  = 2000
	DateLayout  = "2006-01-02"
)

// ParseRole accepts "employee" or "admin", case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleEmployee, RoleAdmin:
		return r, nil
	}
	return "", &ValidationError{Field: "role", Message: "must be employee or admin"}
}
