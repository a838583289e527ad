package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/threadlog/internal/cli/formatter"
	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/service"
)

func newLogCmd(app *App, ids *identityFlags) *cobra.Command {
	var date, note, forEmployee string
	var hour int
	status := newStatusFlag(domain.StatusCompleted)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Set the status of one hour of the day",
		Example: `  threadlog log --hour 9 --status completed --note "standup"
  threadlog log --hour 14 --status in-progress --date 2025-06-15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := ids.actor()
			if err != nil {
				return err
			}
			req := service.UpsertRequest{
				EmployeeID: forEmployee,
				Date:       dateOrToday(date, app.now()),
				Hour:       hour,
				Status:     status.String(),
				Note:       note,
			}

			if !cmd.Flags().Changed("hour") {
				if !app.interactive() {
					return fmt.Errorf("--hour is required")
				}
				if err := runLogForm(&req, app.now().Hour()); err != nil {
					return err
				}
			}

			stored, err := app.WorkLogs.Upsert(cmd.Context(), actor, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s %s\n",
				stored.DateString(),
				formatter.HourLabel(stored.Hour),
				formatter.StatusPill(stored.Status))
			return nil
		},
	}

	cmd.Flags().IntVar(&hour, "hour", 0, "Hour slot, 0-23")
	cmd.Flags().Var(status, "status", "pending, in-progress, completed or break")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note for the hour")
	cmd.Flags().StringVar(&date, "date", "", "Day as YYYY-MM-DD (default today, UTC)")
	cmd.Flags().StringVar(&forEmployee, "for", "", "Employee to log for (admins only)")

	return cmd
}

// runLogForm collects hour, status and note interactively into req.
func runLogForm(req *service.UpsertRequest, currentHour int) error {
	hourText := strconv.Itoa(currentHour)
	statusText := req.Status
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hour (0-23)").
				Placeholder(hourText).
				Value(&hourText).
				Validate(validateHour),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions()...).
				Value(&statusText),
			huh.NewInput().
				Title("Note (optional)").
				Value(&req.Note),
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&req.Date).
				Validate(validateOptionalDate),
		),
	).WithTheme(threadlogHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return err
	}
	h, err := strconv.Atoi(hourText)
	if err != nil {
		return fmt.Errorf("parsing hour: %w", err)
	}
	req.Hour = h
	req.Status = statusText
	return nil
}
