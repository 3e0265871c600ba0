package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for console traffic.
// Pass to components that need to record metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	LoginAttempts   *prometheus.CounterVec
	AccessDenied    *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opsconsole",
				Name:      "requests_total",
				Help:      "Total number of console HTTP requests",
			},
			[]string{"method", "status"}, // status=ok/error
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "opsconsole",
				Name:      "request_duration_seconds",
				Help:      "Console request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		LoginAttempts: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opsconsole",
				Name:      "login_attempts_total",
				Help:      "Operator login attempts",
			},
			[]string{"outcome"}, // outcome=success/invalid/rejected/error
		),
		AccessDenied: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opsconsole",
				Name:      "access_denied_total",
				Help:      "Requests refused by the role gate",
			},
			[]string{"screen"},
		),
	}
}
