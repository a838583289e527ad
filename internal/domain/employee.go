package domain

// Employee is a roster entry from the employee directory. ThreadColor only
// affects how the employee's timeline is drawn.
type Employee struct {
	ID             string
	OrganizationID string
	Name           string
	Department     string
	ThreadColor    string
	Position       int
}

type Organization struct {
	ID          string
	Name        string
	Departments []string
}

// Actor is the verified identity behind a request.
type Actor struct {
	OrganizationID string
	EmployeeID     string
	Role           Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanAccessOrganization reports whether a acts inside orgID.
func (a Actor) CanAccessOrganization(orgID string) bool {
	return a.OrganizationID != "" && a.OrganizationID == orgID
}

// CanAccessEmployee reports whether a may read or write employeeID's slots in
// orgID. Employees reach only themselves; admins reach their whole organization.
func (a Actor) CanAccessEmployee(orgID, employeeID string) bool {
	if !a.CanAccessOrganization(orgID) {
		return false
	}
	return a.IsAdmin() || a.EmployeeID == employeeID
}
