package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/snapbook/opsconsole/internal/adapter/outbound/memory"
	"github.com/snapbook/opsconsole/internal/domain/session"
)

// discardLogger returns a logger that discards all output (for tests)
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthChecker_Healthy(t *testing.T) {
	store := session.NewStore(memory.NewKVStore(), discardLogger())
	if err := store.Set(context.Background(), session.Session{Token: "t"}); err != nil {
		t.Fatal(err)
	}

	hc := NewHealthChecker(store, "test-version").
		AddProbe("session_db", func(context.Context) error { return nil })

	health := hc.Check(context.Background())

	if health.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", health.Status)
	}
	if health.Version != "test-version" {
		t.Errorf("Version = %q, want test-version", health.Version)
	}
	if health.Checks["session"] != "authenticated" {
		t.Errorf("session check = %q, want authenticated", health.Checks["session"])
	}
	if health.Checks["session_db"] != "ok" {
		t.Errorf("session_db check = %q, want ok", health.Checks["session_db"])
	}
	if health.Checks["goroutines"] == "" {
		t.Error("goroutines check missing")
	}
}

func TestHealthChecker_SignedOutIsHealthy(t *testing.T) {
	store := session.NewStore(memory.NewKVStore(), discardLogger())
	health := NewHealthChecker(store, "").Check(context.Background())

	if health.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", health.Status)
	}
	if health.Checks["session"] != "uninitialized" {
		t.Errorf("session check = %q, want uninitialized", health.Checks["session"])
	}
}

func TestHealthChecker_NilStore(t *testing.T) {
	health := NewHealthChecker(nil, "").Check(context.Background())

	if health.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", health.Status)
	}
	if health.Checks["session"] != "not configured" {
		t.Errorf("session = %q, want 'not configured'", health.Checks["session"])
	}
}

func TestHealthChecker_FailingProbe(t *testing.T) {
	hc := NewHealthChecker(nil, "").
		AddProbe("session_db", func(context.Context) error { return errors.New("database is locked") })

	health := hc.Check(context.Background())

	if health.Status != "unhealthy" {
		t.Errorf("Status = %q, want unhealthy", health.Status)
	}
	if health.Checks["session_db"] != "error: database is locked" {
		t.Errorf("session_db = %q", health.Checks["session_db"])
	}
}

func TestHealthChecker_Handler(t *testing.T) {
	tests := []struct {
		name       string
		probeErr   error
		wantStatus int
	}{
		{"healthy", nil, http.StatusOK},
		{"unhealthy", errors.New("down"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker(nil, "v1").
				AddProbe("dep", func(context.Context) error { return tt.probeErr })

			rec := httptest.NewRecorder()
			hc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Version != "v1" {
				t.Errorf("Version = %q, want v1", resp.Version)
			}
		})
	}
}
