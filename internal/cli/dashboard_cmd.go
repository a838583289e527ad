package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/threadlog/internal/cli/formatter"
	"github.com/alexanderramin/threadlog/internal/service"
)

func newDashboardCmd(app *App, ids *identityFlags) *cobra.Command {
	var date, department string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show every employee's day for the organization (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := ids.actor()
			if err != nil {
				return err
			}
			dash, err := app.Dashboard.Build(cmd.Context(), actor, service.DashboardRequest{
				OrganizationID: actor.OrganizationID,
				Date:           dateOrToday(date, app.now()),
				Department:     department,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDashboard(dash))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day as YYYY-MM-DD (default today, UTC)")
	cmd.Flags().StringVar(&department, "department", "", "Only show one department")

	return cmd
}
