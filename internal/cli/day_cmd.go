package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/threadlog/internal/cli/formatter"
	"github.com/alexanderramin/threadlog/internal/service"
)

func newDayCmd(app *App, ids *identityFlags) *cobra.Command {
	var date, forEmployee string

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show one employee's 24-hour timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := ids.actor()
			if err != nil {
				return err
			}
			view, err := app.WorkLogs.Day(cmd.Context(), actor, service.DayRequest{
				EmployeeID: forEmployee,
				Date:       dateOrToday(date, app.now()),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDay(view, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day as YYYY-MM-DD (default today, UTC)")
	cmd.Flags().StringVar(&forEmployee, "for", "", "Employee to show (admins only)")

	return cmd
}
