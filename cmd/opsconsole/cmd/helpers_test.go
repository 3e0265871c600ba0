package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/snapbook/opsconsole/internal/adapter/outbound/backend"
	"github.com/snapbook/opsconsole/internal/adapter/outbound/memory"
	"github.com/snapbook/opsconsole/internal/config"
	"github.com/snapbook/opsconsole/internal/domain/session"
	"github.com/snapbook/opsconsole/internal/service"
)

// cliEnv runs commands against an httptest backend and an in-memory session.
type cliEnv struct {
	store *session.Store

	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

func writeEnvelope(w http.ResponseWriter, status, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "message": message, "data": data})
}

func newCLIEnv(t *testing.T, sess *session.Session, handler http.HandlerFunc) *cliEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &cliEnv{store: session.NewStore(memory.NewKVStore(), logger)}
	if sess != nil {
		if err := env.store.Set(context.Background(), *sess); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		env.mu.Lock()
		env.requests = append(env.requests, r)
		env.bodies = append(env.bodies, string(body))
		env.mu.Unlock()
		if handler == nil {
			writeEnvelope(w, http.StatusOK, 0, "ok", nil)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	api := backend.NewClient(srv.URL, env.store, backend.WithLogger(logger))
	prev := openApp
	openApp = func(ctx context.Context) (*app, error) {
		return &app{
			cfg:    config.Default(),
			logger: logger,
			store:  env.store,
			api:    api,
			auth:   service.NewAuthService(api, env.store, logger),
		}, nil
	}
	t.Cleanup(func() {
		openApp = prev
		outputFormat = formatTable
	})
	return env
}

func (e *cliEnv) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.requests)
}

func (e *cliEnv) last() (*http.Request, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.requests) == 0 {
		return nil, ""
	}
	return e.requests[len(e.requests)-1], e.bodies[len(e.bodies)-1]
}

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func adminSession(roles ...string) *session.Session {
	return &session.Session{
		Token: "tok-cli",
		User:  &session.Principal{ID: 7, Phone: "13800000000", Status: "active"},
		Roles: roles,
	}
}
