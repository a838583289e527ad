package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActor_CanAccessEmployee(t *testing.T) {
	employee := Actor{OrganizationID: "org-1", EmployeeID: "emp-1", Role: RoleEmployee}
	admin := Actor{OrganizationID: "org-1", EmployeeID: "adm-1", Role: RoleAdmin}

	assert.True(t, employee.CanAccessEmployee("org-1", "emp-1"))
	assert.False(t, employee.CanAccessEmployee("org-1", "emp-2"))
	assert.False(t, employee.CanAccessEmployee("org-2", "emp-1"))

	assert.True(t, admin.CanAccessEmployee("org-1", "emp-2"))
	assert.False(t, admin.CanAccessEmployee("org-2", "emp-2"))

	assert.False(t, Actor{}.CanAccessOrganization(""))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("owner")
	require.ErrorIs(t, err, ErrInvalidInput)
}
