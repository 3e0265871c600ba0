package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/snapbook/opsconsole/internal/domain/session"
)

// HealthResponse is the JSON response from the /health endpoint.
type HealthResponse struct {
	Status  string            `json:"status"`            // "healthy" or "unhealthy"
	Checks  map[string]string `json:"checks"`            // Component check results
	Version string            `json:"version,omitempty"` // Optional version info
}

// Probe checks one dependency. A non-nil error marks the console unhealthy.
type Probe func(ctx context.Context) error

type namedProbe struct {
	name  string
	probe Probe
}

// HealthChecker verifies component health.
type HealthChecker struct {
	store   *session.Store
	probes  []namedProbe
	version string
}

// NewHealthChecker creates a HealthChecker. store may be nil.
func NewHealthChecker(store *session.Store, version string) *HealthChecker {
	return &HealthChecker{store: store, version: version}
}

// AddProbe registers a named dependency check, e.g. the session database.
func (h *HealthChecker) AddProbe(name string, p Probe) *HealthChecker {
	h.probes = append(h.probes, namedProbe{name: name, probe: p})
	return h
}

// Check performs health checks on all components. The session state is
// informational: a signed-out console is still healthy.
func (h *HealthChecker) Check(ctx context.Context) HealthResponse {
	checks := make(map[string]string)
	healthy := true

	if h.store != nil {
		checks["session"] = h.store.State().String()
	} else {
		checks["session"] = "not configured"
	}

	for _, np := range h.probes {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := np.probe(pctx)
		cancel()
		if err != nil {
			checks[np.name] = "error: " + err.Error()
			healthy = false
		} else {
			checks[np.name] = "ok"
		}
	}

	checks["goroutines"] = fmt.Sprintf("%d", runtime.NumGoroutine())

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	return HealthResponse{
		Status:  status,
		Checks:  checks,
		Version: h.version,
	}
}

// Handler returns an HTTP handler for the health endpoint.
func (h *HealthChecker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		health := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if health.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(health)
	})
}

// healthHandler is the fallback when no HealthChecker is configured.
func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: "healthy", Checks: map[string]string{}})
	})
}
