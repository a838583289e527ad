package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/threadlog/internal/cli/formatter"
	"github.com/alexanderramin/threadlog/internal/config"
	"github.com/alexanderramin/threadlog/internal/domain"
)

func newWatchCmd(app *App, ids *identityFlags) *cobra.Command {
	var server, token string
	var plain bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live work log updates for the organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := ids.actor()
			if err != nil {
				return err
			}
			if token == "" {
				if app.Tokens == nil {
					return fmt.Errorf("--token is required when auth.secret is not configured")
				}
				if token, err = app.Tokens.Issue(actor); err != nil {
					return err
				}
			}
			client, err := newWatchClient(server, token, actor.OrganizationID)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			updates := make(chan watchUpdate, 16)
			errc := make(chan error, 1)
			go func() { errc <- client.Run(ctx, updates) }()

			names := rosterNames(ctx, app, actor)
			if plain || !app.interactive() {
				printUpdates(cmd.OutOrStdout(), updates, names, app)
			} else {
				model := newWatchModel(updates, names, app.now)
				if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && ctx.Err() == nil {
					return err
				}
			}
			cancel()
			return <-errc
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "threadlog server address")
	cmd.Flags().StringVar(&token, "token", os.Getenv(config.EnvPrefix+"_TOKEN"), "Bearer token (default: minted from the local auth secret)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print one line per update instead of the live view")

	return cmd
}

// rosterNames maps employee IDs to display names when the local directory
// can see the organization. Lookup failures just mean unnamed events.
func rosterNames(ctx context.Context, app *App, actor domain.Actor) map[string]string {
	names := map[string]string{}
	if app.Dashboard == nil {
		return names
	}
	rows, err := app.Dashboard.QueryByOrganizationAndDate(ctx, actor.OrganizationID, app.now())
	if err != nil {
		return names
	}
	for _, r := range rows {
		names[r.Employee.ID] = r.Employee.Name
	}
	return names
}

func printUpdates(w io.Writer, updates <-chan watchUpdate, names map[string]string, app *App) {
	for u := range updates {
		stamp := app.now().Format("15:04:05")
		switch u.kind {
		case watchJoined:
			fmt.Fprintf(w, "%s joined %s\n", stamp, u.orgID)
		case watchEvent:
			fmt.Fprintf(w, "%s %s\n", stamp, formatter.FormatEvent(*u.event, names))
		case watchRetrying:
			fmt.Fprintf(w, "%s disconnected: %v (retrying in %s)\n", stamp, u.err, u.delay)
		case watchRefused:
			fmt.Fprintf(w, "%s %v\n", stamp, u.err)
		}
	}
}
