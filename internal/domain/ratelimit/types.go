// Package ratelimit provides the throttling types used in front of the
// login endpoints.
package ratelimit

import (
	"fmt"
	"time"
)

// Limit defines the rate limiting parameters.
type Limit struct {
	// Rate is the number of allowed events in the period.
	Rate int

	// Burst is the maximum number of events that can occur at once.
	Burst int

	// Period is the time window for the rate limit.
	Period time.Duration
}

// Result contains the result of a rate limit check.
type Result struct {
	Allowed bool

	// RetryAfter is the duration until the next request will be allowed.
	// Only meaningful when Allowed is false.
	RetryAfter time.Duration
}

// Scope identifies what a key throttles.
type Scope string

const (
	// ScopeCode throttles verification code requests per phone.
	ScopeCode Scope = "code"

	// ScopeLogin throttles login attempts per phone.
	ScopeLogin Scope = "login"
)

// Limits applied by the console.
var (
	// CodeRequests allows one verification code per phone per minute.
	CodeRequests = Limit{Rate: 1, Burst: 1, Period: time.Minute}
	// LoginAttempts allows five code guesses per phone per minute.
	LoginAttempts = Limit{Rate: 5, Burst: 5, Period: time.Minute}
)

// FormatKey returns a structured rate limit key.
// Format: "ratelimit:{scope}:{value}"
func FormatKey(scope Scope, value string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, value)
}
