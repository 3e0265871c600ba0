package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/snapbook/opsconsole/internal/adapter/outbound/backend"
	"github.com/snapbook/opsconsole/internal/adapter/outbound/memory"
	"github.com/snapbook/opsconsole/internal/adapter/outbound/sqlite"
	"github.com/snapbook/opsconsole/internal/adapter/outbound/state"
	"github.com/snapbook/opsconsole/internal/config"
	"github.com/snapbook/opsconsole/internal/domain/session"
	"github.com/snapbook/opsconsole/internal/service"
)

// app is the wiring shared by the server and every command: configuration,
// the session store and the backend pipeline.
type app struct {
	cfg    *config.ConsoleConfig
	logger *slog.Logger
	store  *session.Store
	api    *backend.Client
	auth   *service.AuthService

	// probe checks the persistence medium, nil when there is nothing to check.
	probe   func(context.Context) error
	closers []func() error
}

// appOptions tune newApp for the serve command.
type appOptions struct {
	devMode   bool
	logOutput io.Writer
	// quiet lifts the info level to warn so command output stays readable.
	quiet     bool
	registry  prometheus.Registerer
}

// openApp builds the app for a command. Tests replace it.
var openApp = func(ctx context.Context) (*app, error) {
	return newApp(ctx, appOptions{logOutput: os.Stderr, quiet: true})
}

// newApp loads and validates the configuration, then builds the session store
// and the backend client on top of it.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.LoadConfigRaw()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.devMode {
		cfg.DevMode = true
	}
	if sessionPath != "" {
		cfg.Session.Path = sessionPath
	}
	cfg.SetDevDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if opts.logOutput == nil {
		opts.logOutput = os.Stderr
	}
	level := parseLogLevel(cfg.Server.LogLevel)
	if opts.quiet && level == slog.LevelInfo {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(opts.logOutput, &slog.HandlerOptions{Level: level}))

	a := &app{cfg: cfg, logger: logger}
	persistence, err := a.openPersistence(ctx)
	if err != nil {
		return nil, err
	}
	a.store = session.NewStore(persistence, logger)

	clientOpts := []backend.Option{
		backend.WithPrefix(cfg.Backend.APIPrefix),
		backend.WithTimeout(cfg.BackendTimeout()),
		backend.WithLogger(logger),
	}
	if opts.registry != nil {
		clientOpts = append(clientOpts, backend.WithMetrics(backend.NewMetrics(opts.registry)))
	}
	a.api = backend.NewClient(cfg.Backend.BaseURL, a.store, clientOpts...)
	a.auth = service.NewAuthService(a.api, a.store, logger)
	return a, nil
}

// openPersistence opens the medium named by session.backend.
func (a *app) openPersistence(ctx context.Context) (session.Persistence, error) {
	switch a.cfg.Session.Backend {
	case config.SessionBackendMemory:
		a.logger.Warn("session is kept in memory and is lost on exit")
		return memory.NewKVStore(), nil
	case config.SessionBackendSQLite:
		db, err := sqlite.Open(ctx, a.cfg.Session.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		a.probe = db.Ping
		a.closers = append(a.closers, db.Close)
		return db, nil
	default:
		return state.NewFileStore(a.cfg.Session.Path, a.logger), nil
	}
}

// Close releases the persistence medium.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
