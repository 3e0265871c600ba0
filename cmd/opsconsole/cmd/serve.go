package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/adapter/inbound/console"
	httpadapter "github.com/snapbook/opsconsole/internal/adapter/inbound/http"
	"github.com/snapbook/opsconsole/internal/adapter/outbound/memory"
	"github.com/snapbook/opsconsole/internal/config"
	"github.com/snapbook/opsconsole/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser console",
	Long: `Start the operations console on the configured address (default
127.0.0.1:8090). The console shares its session with the CLI commands.

Examples:
  # Start with config file settings
  opsconsole serve

  # Verbose logging and tracing to stderr
  opsconsole serve --dev`,
	RunE: runServe,
}

var devMode bool

func init() {
	serveCmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode (debug logging, tracing)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// stop() restores default signal handling so a second Ctrl+C kills.
	ctx, stop := signal.NotifyContext(context.Background(), gracefulSignals()...)
	go func() {
		<-ctx.Done()
		stop()
	}()

	registry := httpadapter.NewRegistry()
	a, err := newApp(ctx, appOptions{devMode: devMode, logOutput: os.Stderr, registry: registry})
	if err != nil {
		return err
	}
	defer a.Close()

	logger := a.logger
	cfg := a.cfg
	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Info("loaded config", "file", configFile)
	}

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Options{
		Enabled: cfg.Telemetry.Tracing,
		Writer:  os.Stderr,
		Version: Version,
	})
	if err != nil {
		return fmt.Errorf("failed to start telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	metrics := httpadapter.NewMetrics(registry)
	limiter := memory.NewLimiter()
	limiter.StartCleanup(ctx)
	defer limiter.Stop()

	handler, err := console.New(console.Deps{
		Store:         a.store,
		API:           a.api,
		Auth:          a.auth,
		Metrics:       metrics,
		Limiter:       limiter,
		Logger:        logger,
		Version:       Version,
		SecureCookies: cfg.Server.SecureCookies,
	})
	if err != nil {
		return err
	}

	health := httpadapter.NewHealthChecker(a.store, Version)
	if a.probe != nil {
		health.AddProbe("session_db", a.probe)
	}

	srv := httpadapter.NewServer(handler.Handler(),
		httpadapter.WithAddr(cfg.Server.HTTPAddr),
		httpadapter.WithLogger(logger),
		httpadapter.WithRegistry(registry),
		httpadapter.WithMetrics(metrics),
		httpadapter.WithMetricsEndpoint(cfg.Telemetry.Metrics),
		httpadapter.WithHealthChecker(health),
	)

	pidPath := pidFilePath()
	if err := writePIDFile(pidPath); err != nil {
		logger.Warn("failed to write PID file", "path", pidPath, "error", err)
	} else {
		defer os.Remove(pidPath)
	}

	go func() {
		select {
		case addr := <-srv.Listening():
			printBanner(addr, cfg)
		case <-ctx.Done():
		}
	}()

	logger.Info("starting console", "addr", cfg.Server.HTTPAddr, "backend", cfg.Backend.BaseURL,
		"session", cfg.Session.Backend, "state", a.store.State().String())
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("console server failed: %w", err)
	}

	logger.Info("opsconsole stopped")
	return nil
}

// printBanner prints the startup banner to stderr.
func printBanner(addr string, cfg *config.ConsoleConfig) {
	const (
		reset  = "\033[0m"
		bold   = "\033[1m"
		cyan   = "\033[36m"
		yellow = "\033[33m"
		dim    = "\033[2m"
	)

	host := addr
	if strings.HasPrefix(host, "[::]") || strings.HasPrefix(host, "0.0.0.0") {
		host = "localhost" + host[strings.LastIndex(host, ":"):]
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  %s%s Ops Console %s%s\n", bold, cyan, Version, reset)
	fmt.Fprintf(os.Stderr, "  %s─────────────────────────────────────%s\n", dim, reset)
	fmt.Fprintf(os.Stderr, "  %-10s http://%s/\n", "Console:", host)
	fmt.Fprintf(os.Stderr, "  %-10s %s%s\n", "Backend:", cfg.Backend.BaseURL, cfg.Backend.APIPrefix)
	fmt.Fprintf(os.Stderr, "  %-10s %s %s\n", "Session:", cfg.Session.Backend, cfg.Session.Path)
	if cfg.Server.AllowRemote && !config.IsLoopbackAddr(cfg.Server.HTTPAddr) {
		fmt.Fprintf(os.Stderr, "  %s%-10s listening beyond localhost%s\n", yellow, "Warning:", reset)
	}
	fmt.Fprintf(os.Stderr, "  %s─────────────────────────────────────%s\n", dim, reset)
	fmt.Fprintf(os.Stderr, "\n")
}
