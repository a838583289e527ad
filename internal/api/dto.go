package api

import (
	"time"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/service"
)

type upsertWorkLogRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Date       string `json:"date"`
	Hour       *int   `json:"hour"`
	Status     string `json:"status"`
	Note       string `json:"note"`
}

type workLogEntryResponse struct {
	OrganizationID string    `json:"organization_id"`
	EmployeeID     string    `json:"employee_id"`
	Date           string    `json:"date"`
	Hour           int       `json:"hour"`
	Status         string    `json:"status"`
	Note           string    `json:"note"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type employeeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Department  string `json:"department,omitempty"`
	ThreadColor string `json:"thread_color,omitempty"`
}

type slotResponse struct {
	Hour      int        `json:"hour"`
	Status    string     `json:"status"`
	Note      string     `json:"note"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type dayResponse struct {
	Employee employeeResponse `json:"employee"`
	Date     string           `json:"date"`
	Slots    []slotResponse   `json:"slots"`
	Counts   map[string]int   `json:"counts"`
}

type dashboardRowResponse struct {
	Employee employeeResponse `json:"employee"`
	Slots    []slotResponse   `json:"slots"`
	Counts   map[string]int   `json:"counts"`
	Active   bool             `json:"active"`
}

type summaryResponse struct {
	EmployeeCount  int            `json:"employee_count"`
	ActiveCount    int            `json:"active_count"`
	CompletedHours int            `json:"completed_hours"`
	ByStatus       map[string]int `json:"by_status"`
}

type dashboardResponse struct {
	OrganizationID   string                 `json:"organization_id"`
	OrganizationName string                 `json:"organization_name,omitempty"`
	Date             string                 `json:"date"`
	Department       string                 `json:"department,omitempty"`
	Departments      []string               `json:"departments"`
	Rows             []dashboardRowResponse `json:"rows"`
	Summary          summaryResponse        `json:"summary"`
}

func toEntryResponse(e *domain.WorkLogEntry) workLogEntryResponse {
	return workLogEntryResponse{
		OrganizationID: e.OrganizationID,
		EmployeeID:     e.EmployeeID,
		Date:           e.DateString(),
		Hour:           e.Hour,
		Status:         string(e.Status),
		Note:           e.Note,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toEmployeeResponse(e domain.Employee) employeeResponse {
	return employeeResponse{ID: e.ID, Name: e.Name, Department: e.Department, ThreadColor: e.ThreadColor}
}

func toSlots(row domain.DashboardRow) []slotResponse {
	slots := make([]slotResponse, 0, len(row.Slots))
	for _, s := range row.Slots {
		out := slotResponse{Hour: s.Hour, Status: string(s.Status), Note: s.Note}
		if !s.UpdatedAt.IsZero() {
			at := s.UpdatedAt
			out.UpdatedAt = &at
		}
		slots = append(slots, out)
	}
	return slots
}

func toCounts(c domain.StatusCounts) map[string]int {
	out := make(map[string]int, len(c))
	for s, n := range c {
		out[string(s)] = n
	}
	return out
}

func toDayResponse(v *service.DayView) dayResponse {
	return dayResponse{
		Employee: toEmployeeResponse(v.Row.Employee),
		Date:     v.Row.Date.Format(domain.DateLayout),
		Slots:    toSlots(v.Row),
		Counts:   toCounts(v.Counts),
	}
}

func toDashboardResponse(d *service.Dashboard) dashboardResponse {
	rows := make([]dashboardRowResponse, 0, len(d.Rows))
	for _, r := range d.Rows {
		rows = append(rows, dashboardRowResponse{
			Employee: toEmployeeResponse(r.Employee),
			Slots:    toSlots(r),
			Counts:   toCounts(r.Counts()),
			Active:   r.IsActive(),
		})
	}
	departments := d.Departments
	if departments == nil {
		departments = []string{}
	}
	return dashboardResponse{
		OrganizationID:   d.OrganizationID,
		OrganizationName: d.OrganizationName,
		Date:             d.Date.Format(domain.DateLayout),
		Department:       d.Department,
		Departments:      departments,
		Rows:             rows,
		Summary: summaryResponse{
			EmployeeCount:  d.Summary.EmployeeCount,
			ActiveCount:    d.Summary.ActiveCount,
			CompletedHours: d.Summary.CompletedHours,
			ByStatus:       toCounts(d.Summary.ByStatus),
		},
	}
}
