package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the hub and bridge counters exported on /metrics.
type Metrics struct {
	Sessions      prometheus.Gauge
	Subscriptions prometheus.Gauge
	Published     prometheus.Counter
	Deliveries    *prometheus.CounterVec
	BridgeErrors  *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg leaves them
// unregistered, which tests use to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "threadlog_realtime_sessions",
			Help: "Sessions currently joined to at least one organization",
		}),
		Subscriptions: f.NewGauge(prometheus.GaugeOpts{
			Name: "threadlog_realtime_subscriptions",
			Help: "Session/organization pairs currently subscribed",
		}),
		Published: f.NewCounter(prometheus.CounterOpts{
			Name: "threadlog_realtime_events_published_total",
			Help: "Change events handed to the hub",
		}),
		Deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "threadlog_realtime_deliveries_total",
			Help: "Per-session delivery attempts by outcome",
		}, []string{"outcome"}),
		BridgeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "threadlog_realtime_bridge_errors_total",
			Help: "Cross-process bridge failures by direction",
		}, []string{"direction"}),
	}
}
