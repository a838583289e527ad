package importer

import (
	"github.com/alexanderramin/threadlog/internal/domain"
)

// defaultThreadColors cycles through employees without a thread_color.
var defaultThreadColors = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899", "#14B8A6", "#F97316",
}

// Converted is a roster ready for persistence.
type Converted struct {
	Organization *domain.Organization
	Employees    []*domain.Employee
}

// Convert turns a validated roster into domain objects. Call ValidateRoster
// first; Convert assumes the roster is valid.
func Convert(r *Roster) *Converted {
	org := &domain.Organization{
		ID:          r.Organization.ID,
		Name:        r.Organization.Name,
		Departments: append([]string(nil), r.Organization.Departments...),
	}

	employees := make([]*domain.Employee, 0, len(r.Employees))
	for i, e := range r.Employees {
		position := i
		if e.Position != nil {
			position = *e.Position
		}
		color := e.ThreadColor
		if color == "" {
			color = defaultThreadColors[i%len(defaultThreadColors)]
		}
		employees = append(employees, &domain.Employee{
			ID:             e.ID,
			OrganizationID: org.ID,
			Name:           e.Name,
			Department:     e.Department,
			ThreadColor:    color,
			Position:       position,
		})
	}
	return &Converted{Organization: org, Employees: employees}
}
