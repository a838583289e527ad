package importer

import (
	"fmt"
	"regexp"
	"slices"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateRoster checks the roster before conversion and returns every
// problem found.
func ValidateRoster(r *Roster) []error {
	var errs []error
	errs = append(errs, validateOrganization(&r.Organization)...)
	errs = append(errs, validateEmployees(r.Employees, r.Organization.Departments)...)
	return errs
}

func validateOrganization(o *OrganizationImport) []error {
	var errs []error
	if o.ID == "" {
		errs = append(errs, fmt.Errorf("organization.id is required"))
	}
	if o.Name == "" {
		errs = append(errs, fmt.Errorf("organization.name is required"))
	}
	seen := make(map[string]bool, len(o.Departments))
	for i, d := range o.Departments {
		if d == "" {
			errs = append(errs, fmt.Errorf("organization.departments[%d] is empty", i))
			continue
		}
		if seen[d] {
			errs = append(errs, fmt.Errorf("organization.departments: duplicate %q", d))
		}
		seen[d] = true
	}
	return errs
}

func validateEmployees(employees []EmployeeImport, departments []string) []error {
	var errs []error
	ids := make(map[string]bool, len(employees))
	for i, e := range employees {
		prefix := fmt.Sprintf("employees[%d]", i)
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if ids[e.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate %q", prefix, e.ID))
		}
		ids[e.ID] = true
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if e.Department != "" && len(departments) > 0 && !slices.Contains(departments, e.Department) {
			errs = append(errs, fmt.Errorf("%s.department %q is not listed under organization.departments", prefix, e.Department))
		}
		if e.ThreadColor != "" && !hexColor.MatchString(e.ThreadColor) {
			errs = append(errs, fmt.Errorf("%s.thread_color %q must look like #RRGGBB", prefix, e.ThreadColor))
		}
		if e.Position != nil && *e.Position < 0 {
			errs = append(errs, fmt.Errorf("%s.position must be >= 0", prefix))
		}
	}
	return errs
}
