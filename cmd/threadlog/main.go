package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/threadlog/internal/auth"
	"github.com/alexanderramin/threadlog/internal/cli"
	"github.com/alexanderramin/threadlog/internal/config"
	"github.com/alexanderramin/threadlog/internal/db"
	"github.com/alexanderramin/threadlog/internal/repository"
	"github.com/alexanderramin/threadlog/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log)

	ctx := context.Background()
	store, health, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observers := []service.UseCaseObserver{
		service.NewLogUseCaseObserver(log),
		service.NewMetricsUseCaseObserver(reg),
	}

	var tokens *auth.TokenService
	if cfg.Auth.Secret != "" {
		if tokens, err = auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL); err != nil {
			return err
		}
	}

	// Writes made from the command line reach running servers through the
	// bridge when one is reachable.
	notifier := newBridgeNotifier(cfg.Bridge, log)
	defer notifier.Close()

	app := &cli.App{
		WorkLogs:  service.NewWorkLogService(store, notifier, observers...),
		Dashboard: service.NewDashboardService(store, observers...),
		Roster:    service.NewRosterService(store, observers...),
		Tokens:    tokens,
		Config:    cfg,
		Serve: func(ctx context.Context) error {
			return serve(ctx, serverDeps{
				cfg:       cfg,
				log:       log,
				store:     store,
				health:    health,
				tokens:    tokens,
				registry:  reg,
				observers: observers,
			})
		},
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}

// configPath pulls --config out of args before cobra runs, since the command
// tree is built from the loaded config.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String(cli.ConfigFlag, os.Getenv(config.EnvPrefix+"_CONFIG"), "")
	_ = fs.Parse(args)
	return *path
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out io.Writer = os.Stderr
	console := cfg.Format == "console" ||
		(cfg.Format == "auto" && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())))
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// openStore opens the configured backend and returns its Store, a health
// probe and a close func.
func openStore(ctx context.Context, cfg config.StorageConfig) (repository.Store, func(context.Context) error, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewPostgresStore(pool), pool.Ping, pool.Close, nil
	default:
		database, err := db.OpenDB(cfg.DSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return repository.NewSQLiteStore(database, db.NewSQLiteUnitOfWork(database)),
			database.PingContext,
			func() { _ = database.Close() },
			nil
	}
}
