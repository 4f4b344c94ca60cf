package metrics

import (
	"visitor-analytics-service/internal/tracking/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Tracking holds the tracker counters.
type Tracking struct {
	sessions   *prometheus.CounterVec
	pageVisits prometheus.Counter
	failures   *prometheus.CounterVec
}

var _ ports.TrackingMetricsPort = (*Tracking)(nil)

func NewTracking() *Tracking {
	return &Tracking{
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitor_sessions_tracked_total",
				Help: "Visitor sessions resolved, by outcome (created, returning).",
			},
			[]string{"outcome"},
		),
		pageVisits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "page_visits_tracked_total",
			Help: "Page visit rows written.",
		}),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracking_failures_total",
				Help: "Swallowed tracking failures, by operation.",
			},
			[]string{"op"},
		),
	}
}

func (t *Tracking) SessionTracked(outcome string) {
	t.sessions.WithLabelValues(outcome).Inc()
}

func (t *Tracking) PageVisitTracked() {
	t.pageVisits.Inc()
}

func (t *Tracking) TrackingFailed(op string) {
	t.failures.WithLabelValues(op).Inc()
}

func (t *Tracking) Collectors() []prometheus.Collector {
	return []prometheus.Collector{t.sessions, t.pageVisits, t.failures}
}

// NewRegistry returns a registry with the Go runtime and process collectors
// plus the given collectors.
func NewRegistry(cs ...prometheus.Collector) *prometheus.Registry {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	registry.MustRegister(cs...)

	return registry
}
