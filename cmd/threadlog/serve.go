package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/threadlog/internal/api"
	"github.com/alexanderramin/threadlog/internal/auth"
	"github.com/alexanderramin/threadlog/internal/config"
	"github.com/alexanderramin/threadlog/internal/realtime"
	"github.com/alexanderramin/threadlog/internal/repository"
	"github.com/alexanderramin/threadlog/internal/service"
)

type serverDeps struct {
	cfg       *config.Config
	log       zerolog.Logger
	store     repository.Store
	health    func(context.Context) error
	tokens    *auth.TokenService
	registry  *prometheus.Registry
	observers []service.UseCaseObserver
}

// serve runs the HTTP server until ctx ends, then drains it within the
// configured shutdown timeout.
func serve(ctx context.Context, d serverDeps) error {
	if d.tokens == nil {
		return fmt.Errorf("auth.secret is required to serve (set %s_AUTH_SECRET)", config.EnvPrefix)
	}
	log := d.log

	hub := realtime.NewHub(
		realtime.WithMetrics(realtime.NewMetrics(d.registry)),
		realtime.WithLogger(log.With().Str("component", "hub").Logger()),
	)
	var notifier service.Notifier = hub

	bridge, stopBridge, err := openBridge(ctx, d.cfg.Bridge, log)
	if err != nil {
		return err
	}
	defer stopBridge()
	if bridge != nil {
		relay := realtime.NewRelay(hub, bridge, log)
		if err := relay.Start(ctx); err != nil {
			return fmt.Errorf("starting relay: %w", err)
		}
		defer relay.Close()
		notifier = relay
		log.Info().Str("kind", d.cfg.Bridge.Kind).Str("instance_id", relay.InstanceID()).Msg("bridge connected")
	}

	writeLimit, err := api.NewIPRateLimiter(d.cfg.Server.RateLimit)
	if err != nil {
		return err
	}

	handler := api.NewRouter(api.RouterConfig{
		WorkLogs: api.NewWorkLogHandler(
			service.NewWorkLogService(d.store, notifier, d.observers...),
			service.NewDashboardService(d.store, d.observers...),
			log,
		),
		Realtime:      api.NewRealtimeHandler(hub, d.cfg.Server.QueueSize, log),
		Health:        api.NewHealthHandler(map[string]api.HealthCheck{"store": d.health}),
		RequireAuth:   api.RequireIdentity(d.tokens),
		Log:           log,
		Secure:        api.NewSecure(api.SecureOptions(d.cfg.Server.Development)),
		WriteLimit:    writeLimit,
		HTTPMetrics:   api.NewHTTPMetrics(d.registry),
		MetricsGather: d.registry,
	})

	srv := &http.Server{
		Addr:              d.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", d.cfg.Server.Addr).Str("driver", d.cfg.Storage.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), d.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// openBridge connects the configured cross-process bridge. It returns a nil
// bridge for BridgeNone.
func openBridge(ctx context.Context, cfg config.BridgeConfig, log zerolog.Logger) (realtime.Bridge, func(), error) {
	noop := func() {}
	switch cfg.Kind {
	case config.BridgeNATS:
		b, err := realtime.DialNATS(cfg.URL, log)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	case config.BridgeNATSEmbedded:
		ns, err := realtime.StartEmbeddedNATS()
		if err != nil {
			return nil, noop, err
		}
		b, err := realtime.DialNATS(ns.ClientURL(), log)
		if err != nil {
			ns.Shutdown()
			return nil, noop, err
		}
		log.Info().Str("url", ns.ClientURL()).Msg("embedded nats started")
		return b, ns.Shutdown, nil
	case config.BridgeRedis:
		b, err := realtime.DialRedis(ctx, cfg.URL, log)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	default:
		return nil, noop, nil
	}
}
