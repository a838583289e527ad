package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/threadlog/internal/config"
	"github.com/alexanderramin/threadlog/internal/domain"
)

// identityFlags name the actor local commands run as. Remote commands use a
// bearer token instead.
type identityFlags struct {
	org      string
	employee string
	role     string
}

func registerIdentityFlags(root *cobra.Command) *identityFlags {
	ids := &identityFlags{}
	pf := root.PersistentFlags()
	pf.StringVar(&ids.org, "org", os.Getenv(config.EnvPrefix+"_ORG"), "Organization ID to act in")
	pf.StringVar(&ids.employee, "as", os.Getenv(config.EnvPrefix+"_EMPLOYEE"), "Employee ID to act as")
	role := os.Getenv(config.EnvPrefix + "_ROLE")
	if role == "" {
		role = string(domain.RoleEmployee)
	}
	pf.StringVar(&ids.role, "role", role, "Role to act with: employee or admin")
	return ids
}

func (f *identityFlags) actor() (domain.Actor, error) {
	if f.org == "" {
		return domain.Actor{}, fmt.Errorf("--org is required (or set %s_ORG)", config.EnvPrefix)
	}
	if f.employee == "" {
		return domain.Actor{}, fmt.Errorf("--as is required (or set %s_EMPLOYEE)", config.EnvPrefix)
	}
	role, err := domain.ParseRole(f.role)
	if err != nil {
		return domain.Actor{}, err
	}
	return domain.Actor{OrganizationID: f.org, EmployeeID: f.employee, Role: role}, nil
}

// dateOrToday returns s, or today's UTC date when s is empty.
func dateOrToday(s string, now time.Time) string {
	if s == "" {
		return now.UTC().Format(domain.DateLayout)
	}
	return s
}
