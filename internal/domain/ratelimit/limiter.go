package ratelimit

import "context"

// Limiter decides whether the event identified by key may happen now.
//
// Implementations use GCRA (Generic Cell Rate Algorithm), which spreads
// events evenly over the period instead of resetting at window edges.
type Limiter interface {
	// Allow records the event when it is allowed. The key should come from
	// FormatKey.
	Allow(ctx context.Context, key string, limit Limit) (Result, error)
}
