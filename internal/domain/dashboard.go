package domain

import "time"

// DashboardRow is one employee's full day: exactly HoursPerDay slots where
// Slots[h].Hour == h. Unwritten hours hold the pending default.
type DashboardRow struct {
	Employee Employee
	Date     time.Time
	Slots    [HoursPerDay]WorkLogEntry
}

// StatusCounts tallies slots per status.
type StatusCounts map[Status]int

// DashboardSummary is recomputed from rows on every fetch.
type DashboardSummary struct {
	EmployeeCount  int
	ActiveCount    int
	CompletedHours int
	ByStatus       StatusCounts
}

// SynthesizeDay lays entries onto a 24-slot timeline. Entries for other
// employees, other dates, or out-of-range hours are ignored.
func SynthesizeDay(emp Employee, date time.Time, entries []*WorkLogEntry) DashboardRow {
	day := NormalizeDate(date)
	row := DashboardRow{Employee: emp, Date: day}
	for h := 0; h < HoursPerDay; h++ {
		row.Slots[h] = PendingEntry(emp.OrganizationID, emp.ID, day, h)
	}
	for _, e := range entries {
		if e == nil || e.EmployeeID != emp.ID || !NormalizeDate(e.Date).Equal(day) {
			continue
		}
		if ValidateHour(e.Hour) != nil {
			continue
		}
		if e.Supersedes(&row.Slots[e.Hour]) {
			row.Slots[e.Hour] = *e
		}
	}
	return row
}

// Counts tallies the row's slots per status. Every status key is present.
func (r DashboardRow) Counts() StatusCounts {
	c := make(StatusCounts, len(Statuses))
	for _, s := range Statuses {
		c[s] = 0
	}
	for _, slot := range r.Slots {
		c[slot.Status]++
	}
	return c
}

// IsActive reports whether any hour in the row is not pending.
func (r DashboardRow) IsActive() bool {
	for _, slot := range r.Slots {
		if slot.Status.IsActive() {
			return true
		}
	}
	return false
}

// Summarize computes roll-up statistics over rows.
func Summarize(rows []DashboardRow) DashboardSummary {
	s := DashboardSummary{
		EmployeeCount: len(rows),
		ByStatus:      make(StatusCounts, len(Statuses)),
	}
	for _, st := range Statuses {
		s.ByStatus[st] = 0
	}
	for _, row := range rows {
		if row.IsActive() {
			s.ActiveCount++
		}
		for st, n := range row.Counts() {
			s.ByStatus[st] += n
		}
	}
	s.CompletedHours = s.ByStatus[StatusCompleted]
	return s
}
