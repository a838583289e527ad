package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	WorkLogs      *WorkLogHandler
	Realtime      *RealtimeHandler
	Health        *HealthHandler
	RequireAuth   func(http.Handler) http.Handler // bearer token for /api and /ws
	Log           zerolog.Logger
	Secure        func(http.Handler) http.Handler
	WriteLimit    func(http.Handler) http.Handler // applied to POST /api/worklogs
	HTTPMetrics   *HTTPMetrics
	MetricsGather prometheus.Gatherer // exposes /metrics when set
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Middleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		})
	}
	if cfg.MetricsGather != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.MetricsGather, promhttp.HandlerOpts{}))
	}

	writeLimit := cfg.WriteLimit
	if writeLimit == nil {
		writeLimit = noopMiddleware
	}

	requireAuth := cfg.RequireAuth
	if requireAuth == nil {
		requireAuth = denyAll
	}

	if cfg.WorkLogs != nil {
		r.Route("/api", func(r chi.Router) {
			r.Use(chimid.AllowContentType("application/json"))
			r.Use(requireAuth)
			r.Route("/worklogs", func(r chi.Router) {
				r.With(writeLimit).Post("/", cfg.WorkLogs.Upsert)
				r.Get("/", cfg.WorkLogs.Day)
				r.Get("/dashboard", cfg.WorkLogs.Dashboard)
			})
		})
	}

	if cfg.Realtime != nil {
		r.With(requireAuth).Get("/ws", cfg.Realtime.ServeHTTP)
	}

	return r
}
