// Package inbound defines the inbound port interfaces for the console.
// Inbound adapters (HTTP) implement these interfaces.
package inbound

import "context"

// Server is the inbound port for the console's operator-facing surface.
type Server interface {
	// Start serves until ctx is cancelled or an error occurs.
	// Returns nil on graceful shutdown, error on failure.
	Start(ctx context.Context) error

	// Close shuts the server down and releases resources.
	Close() error
}
