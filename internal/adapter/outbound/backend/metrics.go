package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics recorded by the Client.
type Metrics struct {
	RequestsTotal        *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	SessionInvalidations prometheus.Counter
}

// NewMetrics creates and registers the backend metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opsconsole",
				Subsystem: "backend",
				Name:      "requests_total",
				Help:      "Total number of backend API requests",
			},
			[]string{"method", "outcome"},
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "opsconsole",
				Subsystem: "backend",
				Name:      "request_duration_seconds",
				Help:      "Backend API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		SessionInvalidations: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "opsconsole",
				Name:      "session_invalidations_total",
				Help:      "Sessions cleared because the backend answered 401",
			},
		),
	}
}

func (m *Metrics) observe(method, outcome string, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, outcome).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}
