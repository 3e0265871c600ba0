// Package http provides the HTTP listener that serves the operations console.
//
// The Server wraps the console handler with request ID and metrics middleware
// and adds the operational endpoints:
//
//	GET /health   - JSON health report (200 healthy, 503 unhealthy)
//	GET /metrics  - Prometheus metrics (when enabled)
//	/*            - the console
//
// # Usage
//
//	srv := http.NewServer(consoleHandler,
//	    http.WithAddr("127.0.0.1:8090"),
//	    http.WithRegistry(reg),
//	    http.WithHealthChecker(http.NewHealthChecker(store, version)),
//	    http.WithLogger(logger),
//	)
//	err := srv.Start(ctx)
//
// # Middleware Chain
//
// Requests pass through middleware in this order:
//
//  1. MetricsMiddleware - request count and duration by method
//  2. RequestIDMiddleware - X-Request-ID extraction or generation, enriched logger
//  3. Handler - the console router
//
// The request ID stored in the context is forwarded to the backend by the
// backend client so both sides log the same ID.
package http
