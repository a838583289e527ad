package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/threadlog/internal/auth"
	"github.com/alexanderramin/threadlog/internal/config"
	"github.com/alexanderramin/threadlog/internal/service"
)

// App holds the services and process hooks the commands run against.
type App struct {
	WorkLogs  service.WorkLogService
	Dashboard service.DashboardService
	Roster    service.RosterService

	// Tokens is nil when no auth secret is configured.
	Tokens *auth.TokenService
	Config *config.Config

	// Serve runs the HTTP server until ctx is cancelled.
	Serve func(ctx context.Context) error

	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

// ConfigFlag is the persistent flag naming the config file. main reads it
// before the command tree is built.
const ConfigFlag = "config"

// NewRootCmd creates the top-level "threadlog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "threadlog",
		Short:         "Hourly work log with a live team dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String(ConfigFlag, os.Getenv(config.EnvPrefix+"_CONFIG"), "Path to a YAML config file")
	ids := registerIdentityFlags(root)

	root.AddCommand(
		newServeCmd(app),
		newLogCmd(app, ids),
		newDayCmd(app, ids),
		newDashboardCmd(app, ids),
		newWatchCmd(app, ids),
		newRosterCmd(app),
		newTokenCmd(app, ids),
		newConfigCmd(app),
	)

	return root
}
