package http

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m.RequestsTotal == nil {
		t.Error("RequestsTotal not initialized")
	}
	if m.RequestDuration == nil {
		t.Error("RequestDuration not initialized")
	}
	if m.LoginAttempts == nil {
		t.Error("LoginAttempts not initialized")
	}
	if m.AccessDenied == nil {
		t.Error("AccessDenied not initialized")
	}
}

func TestMetricsRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.LoginAttempts.WithLabelValues("success").Inc()
	m.LoginAttempts.WithLabelValues("invalid").Inc()
	m.LoginAttempts.WithLabelValues("invalid").Inc()
	m.AccessDenied.WithLabelValues("audit").Inc()

	if got := testutil.ToFloat64(m.LoginAttempts.WithLabelValues("invalid")); got != 2 {
		t.Errorf("login_attempts_total{outcome=invalid} = %v, want 2", got)
	}

	expected := `
# HELP opsconsole_access_denied_total Requests refused by the role gate
# TYPE opsconsole_access_denied_total counter
opsconsole_access_denied_total{screen="audit"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "opsconsole_access_denied_total"); err != nil {
		t.Errorf("unexpected metric output: %v", err)
	}
}
