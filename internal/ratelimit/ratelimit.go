// Package ratelimit provides fixed-window rate limiting for abusive-client
// throttling: listing creation, uploads, login attempts, profile edits.
//
// Counters live in Redis when a client is configured, giving atomic,
// cross-process enforcement. When Redis is absent or unreachable the limiter
// transparently falls back to an in-process table for that invocation and
// logs a warning: callers never see a failure, at the cost of per-process
// fairness while degraded.
package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Store is a counter backend. Increment bumps the counter for key, starting
// a new window expiring after window on the first hit, and returns the
// post-increment count and remaining window time.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// Result reports the outcome of a Consume call.
type Result struct {
	// Allowed is true when the post-increment count is within the limit.
	Allowed bool
	// Remaining is how many calls are left in the current window.
	Remaining int
	// ResetAt is when the current window expires.
	ResetAt time.Time
}

// RetryAfter returns the whole seconds a throttled caller should wait,
// never less than one.
func (r Result) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Policy pairs a limit with its window. Policies belong to callers; the
// limiter itself is policy-agnostic.
type Policy struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// Limiter counts events per key within fixed windows.
type Limiter struct {
	store    Store
	fallback *Memory
	logger   *zap.Logger
}

// New creates a limiter. store may be nil, in which case every call uses the
// in-process table.
func New(store Store, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{
		store:    store,
		fallback: NewMemory(),
		logger:   logger,
	}
}

// Consume registers one event for key and reports whether the caller is
// within limit for the window. It never fails: a backend error degrades to
// the in-process table for this invocation only.
func (l *Limiter) Consume(ctx context.Context, key string, limit int, window time.Duration) Result {
	if l.store != nil {
		count, ttl, err := l.store.Increment(ctx, key, window)
		if err == nil {
			return resultFor(count, ttl, limit, window)
		}
		l.logger.Warn("rate limit backend unavailable, using in-process fallback",
			zap.String("key", key),
			zap.Error(err))
	}

	count, ttl, _ := l.fallback.Increment(ctx, key, window)
	return resultFor(count, ttl, limit, window)
}

// ConsumePolicy is Consume with the limit and window taken from a Policy.
func (l *Limiter) ConsumePolicy(ctx context.Context, key string, p Policy) Result {
	return l.Consume(ctx, key, p.Limit, p.Window)
}

// Close releases the in-process table's cleanup goroutine.
func (l *Limiter) Close() error {
	return l.fallback.Close()
}

func resultFor(count int64, ttl time.Duration, limit int, window time.Duration) Result {
	if ttl <= 0 {
		ttl = window
	}
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}
}
