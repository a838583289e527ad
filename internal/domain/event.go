package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventWorkLogUpdated = "worklog.updated"
	EventSchemaVersion  = "v1"
)

// ChangeEvent announces that one hour slot changed. Receivers treat it as a
// hint to re-fetch the dashboard; it is not a replication log.
type ChangeEvent struct {
	EventType      string    `json:"event_type"`
	EventID        string    `json:"event_id"`
	EventTime      time.Time `json:"event_time"`
	SchemaVersion  string    `json:"schema_version"`
	OrganizationID string    `json:"organization_id"`
	EmployeeID     string    `json:"employee_id"`
	Date           string    `json:"date"`
	Hour           int       `json:"hour"`
	Status         Status    `json:"status"`
	Note           string    `json:"note,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewChangeEvent builds the event for a stored entry.
func NewChangeEvent(e *WorkLogEntry) ChangeEvent {
	return ChangeEvent{
		EventType:      EventWorkLogUpdated,
		EventID:        uuid.New().String(),
		EventTime:      time.Now().UTC(),
		SchemaVersion:  EventSchemaVersion,
		OrganizationID: e.OrganizationID,
		EmployeeID:     e.EmployeeID,
		Date:           e.DateString(),
		Hour:           e.Hour,
		Status:         e.Status,
		Note:           e.Note,
		UpdatedAt:      e.UpdatedAt,
	}
}
