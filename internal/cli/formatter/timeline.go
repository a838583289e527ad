package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/service"
)

// TimelineRuler labels every third hour above a 24-cell timeline.
func TimelineRuler() string {
	var b strings.Builder
	for h := 0; h < domain.HoursPerDay; h += 3 {
		b.WriteString(fmt.Sprintf("%-3d", h))
	}
	return StyleDim.Render(b.String())
}

// Timeline renders one cell per hour of row.
func Timeline(row domain.DashboardRow) string {
	var b strings.Builder
	for _, slot := range row.Slots {
		b.WriteString(StatusGlyph(slot.Status))
	}
	return b.String()
}

// Legend explains the timeline glyphs.
func Legend() string {
	parts := make([]string, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		parts = append(parts, StatusGlyph(s)+" "+Dim(string(s)))
	}
	return strings.Join(parts, "  ")
}

// CountsLine renders per-status totals in display order.
func CountsLine(c domain.StatusCounts) string {
	parts := make([]string, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		parts = append(parts, StatusStyle(s).Render(fmt.Sprintf("%d %s", c[s], s)))
	}
	return strings.Join(parts, ", ")
}

func employeeLabel(e domain.Employee) string {
	name := e.Name
	if name == "" {
		name = e.ID
	}
	return ThreadStyle(e.ThreadColor).Render(name)
}

// FormatDay renders one employee's day: the timeline, then every hour that
// has been written. now anchors the relative day and update labels.
func FormatDay(v *service.DayView, now time.Time) string {
	var b strings.Builder
	b.WriteString(employeeLabel(v.Row.Employee))
	if v.Row.Employee.Department != "" {
		b.WriteString(" " + Dim(v.Row.Employee.Department))
	}
	b.WriteString("  " + HumanDay(v.Row.Date, now) + " " + Dim(v.Row.Date.Format(domain.DateLayout)) + "\n\n")
	b.WriteString(TimelineRuler() + "\n")
	b.WriteString(Timeline(v.Row) + "\n\n")

	rows := make([][]string, 0)
	for _, slot := range v.Row.Slots {
		if slot.Status == domain.StatusPending && slot.UpdatedAt.IsZero() {
			continue
		}
		rows = append(rows, []string{
			HourLabel(slot.Hour),
			StatusPill(slot.Status),
			Truncate(slot.Note, 48),
			Dim(HumanTimestamp(slot.UpdatedAt, now)),
		})
	}
	if len(rows) == 0 {
		b.WriteString(Dim("Nothing logged yet.") + "\n")
	} else {
		b.WriteString(RenderTable([]string{"HOUR", "STATUS", "NOTE", "UPDATED"}, rows))
	}
	b.WriteString("\n" + CountsLine(v.Counts) + "\n")
	return RenderBox("Day", b.String())
}

// FormatDashboard renders every roster row as a timeline plus the summary.
func FormatDashboard(d *service.Dashboard) string {
	var b strings.Builder
	title := d.OrganizationName
	if title == "" {
		title = d.OrganizationID
	}
	b.WriteString(Bold(title) + "  " + Dim(d.Date.Format(domain.DateLayout)))
	if d.Department != "" {
		b.WriteString("  " + StylePurple.Render(d.Department))
	}
	b.WriteString("\n\n")

	if len(d.Rows) == 0 {
		b.WriteString(Dim("No employees in the roster.") + "\n")
		return RenderBox("Dashboard", b.String())
	}

	rows := make([][]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		c := row.Counts()
		rows = append(rows, []string{
			employeeLabel(row.Employee),
			Dim(row.Employee.Department),
			Timeline(row),
			fmt.Sprintf("%d", c[domain.StatusCompleted]),
		})
	}
	b.WriteString(RenderTable([]string{"EMPLOYEE", "DEPT", TimelineRuler(), "DONE"}, rows))

	s := d.Summary
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s active of %d, %s completed hours\n",
		StyleGreen.Render(fmt.Sprintf("%d", s.ActiveCount)),
		s.EmployeeCount,
		StyleGreen.Render(fmt.Sprintf("%d", s.CompletedHours)),
	))
	b.WriteString(CountsLine(s.ByStatus) + "\n\n")
	b.WriteString(Legend() + "\n")
	return RenderBox("Dashboard", b.String())
}

// FormatEvent renders a change notification as one line. names maps employee
// IDs to display names; unknown IDs are shown truncated.
func FormatEvent(ev domain.ChangeEvent, names map[string]string) string {
	who := names[ev.EmployeeID]
	if who == "" {
		who = TruncID(ev.EmployeeID)
	} else {
		who = Bold(who)
	}
	line := fmt.Sprintf("%s %s %s %s", Dim(ev.Date), HourLabel(ev.Hour), who, StatusPill(ev.Status))
	if ev.Note != "" {
		line += " " + Dim(Truncate(ev.Note, 40))
	}
	return line
}
