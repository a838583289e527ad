package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/threadlog/internal/cli/formatter"
	"github.com/alexanderramin/threadlog/internal/importer"
)

func newRosterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the employee directory",
	}
	cmd.AddCommand(newRosterImportCmd(app))
	return cmd
}

func newRosterImportCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create or update an organization and its employees from YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := importRoster(cmd.Context(), app, path, cmd.OutOrStdout()); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Watching "+path+" for changes, ctrl+c to stop"))
			// A broken edit is reported and the previous roster stays in place.
			return importer.Watch(ctx, path, importer.DefaultDebounce, func() {
				if err := importRoster(ctx, app, path, cmd.OutOrStdout()); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleRed.Render("Import failed: ")+err.Error())
				}
			})
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Re-import whenever the file changes")

	return cmd
}

func importRoster(ctx context.Context, app *App, path string, out io.Writer) error {
	result, err := app.Roster.ImportRoster(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %s (%s) with %d employees\n",
		result.Organization.Name, result.Organization.ID, result.EmployeeCount)
	return nil
}
