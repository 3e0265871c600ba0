package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/snapbook/opsconsole/internal/domain/ratelimit"
)

// Limiter implements ratelimit.Limiter using GCRA in memory. Keys older than
// maxTTL are dropped by the cleanup goroutine.
type Limiter struct {
	cells           map[string]time.Time // theoretical arrival time per key
	mu              sync.Mutex
	now             func() time.Time
	stopChan        chan struct{}
	wg              sync.WaitGroup
	once            sync.Once
	cleanupInterval time.Duration
	maxTTL          time.Duration
}

// NewLimiter creates a limiter that cleans up every 5 minutes and forgets
// keys idle for an hour.
func NewLimiter() *Limiter {
	return NewLimiterWithConfig(5*time.Minute, time.Hour)
}

// NewLimiterWithConfig creates a limiter with custom cleanup settings.
func NewLimiterWithConfig(cleanupInterval, maxTTL time.Duration) *Limiter {
	return &Limiter{
		cells:           make(map[string]time.Time),
		now:             time.Now,
		stopChan:        make(chan struct{}),
		cleanupInterval: cleanupInterval,
		maxTTL:          maxTTL,
	}
}

// Allow checks key against limit and records the event when allowed.
func (l *Limiter) Allow(_ context.Context, key string, limit ratelimit.Limit) (ratelimit.Result, error) {
	if limit.Rate <= 0 {
		limit.Rate = 1
	}
	if limit.Burst <= 0 {
		limit.Burst = limit.Rate
	}
	emission := limit.Period / time.Duration(limit.Rate)
	burstOffset := time.Duration(limit.Burst) * emission

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	tat, ok := l.cells[key]
	if !ok || tat.Before(now) {
		tat = now
	}
	newTAT := tat.Add(emission)
	allowAt := newTAT.Add(-burstOffset)
	if now.Before(allowAt) {
		return ratelimit.Result{RetryAfter: allowAt.Sub(now)}, nil
	}
	l.cells[key] = newTAT
	return ratelimit.Result{Allowed: true}, nil
}

// StartCleanup starts the background cleanup goroutine. It stops when ctx is
// cancelled or Stop is called.
func (l *Limiter) StartCleanup(ctx context.Context) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(l.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-l.stopChan:
				return
			case <-ticker.C:
				l.cleanup()
			}
		}
	}()
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.maxTTL)
	cleaned := 0
	for key, tat := range l.cells {
		if tat.Before(cutoff) {
			delete(l.cells, key)
			cleaned++
		}
	}
	if cleaned > 0 {
		slog.Debug("limiter cleanup completed", "cleaned_keys", cleaned, "remaining_keys", len(l.cells))
	}
}

// Stop stops the cleanup goroutine and waits for it to exit. Safe to call
// multiple times.
func (l *Limiter) Stop() {
	l.once.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
}

// Size returns the number of tracked keys.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cells)
}

var _ ratelimit.Limiter = (*Limiter)(nil)
