package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStore struct {
	calls int
}

func (f *failingStore) Increment(context.Context, string, time.Duration) (int64, time.Duration, error) {
	f.calls++
	return 0, 0, errors.New("connection refused")
}

func TestConsumeMonotonic(t *testing.T) {
	l := New(nil, zap.NewNop())
	defer l.Close()

	ctx := context.Background()
	window := time.Minute

	wantRemaining := []int{2, 1, 0}
	for i, want := range wantRemaining {
		res := l.Consume(ctx, "fresh", 3, window)
		require.True(t, res.Allowed, "call %d", i+1)
		assert.Equal(t, want, res.Remaining, "call %d", i+1)
	}

	res := l.Consume(ctx, "fresh", 3, window)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.True(t, res.ResetAt.After(time.Now()))
}

func TestConsumeWindowReset(t *testing.T) {
	l := New(nil, zap.NewNop())
	defer l.Close()

	ctx := context.Background()
	window := 30 * time.Millisecond

	for i := 0; i < 3; i++ {
		l.Consume(ctx, "k", 2, window)
	}
	res := l.Consume(ctx, "k", 2, window)
	require.False(t, res.Allowed)

	time.Sleep(window + 10*time.Millisecond)

	res = l.Consume(ctx, "k", 2, window)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
}

func TestConsumeIndependentKeys(t *testing.T) {
	l := New(nil, zap.NewNop())
	defer l.Close()

	ctx := context.Background()
	l.Consume(ctx, "a", 1, time.Minute)
	res := l.Consume(ctx, "a", 1, time.Minute)
	require.False(t, res.Allowed)

	res = l.Consume(ctx, "b", 1, time.Minute)
	assert.True(t, res.Allowed)
}

func TestConsumeFallsBackWhenStoreFails(t *testing.T) {
	store := &failingStore{}
	l := New(store, zap.NewNop())
	defer l.Close()

	ctx := context.Background()
	res := l.Consume(ctx, "k", 2, time.Minute)
	require.True(t, res.Allowed, "backend failure must not fail the caller")
	assert.Equal(t, 1, res.Remaining)
	assert.Equal(t, 1, store.calls)

	// Fallback keeps its own counts across degraded invocations.
	l.Consume(ctx, "k", 2, time.Minute)
	res = l.Consume(ctx, "k", 2, time.Minute)
	assert.False(t, res.Allowed)
}

func TestConsumePolicy(t *testing.T) {
	l := New(nil, zap.NewNop())
	defer l.Close()

	p := Policy{Limit: 1, Window: time.Minute}
	res := l.ConsumePolicy(context.Background(), "k", p)
	require.True(t, res.Allowed)
	res = l.ConsumePolicy(context.Background(), "k", p)
	require.False(t, res.Allowed)
}

func TestRetryAfter(t *testing.T) {
	now := time.Now()
	res := Result{ResetAt: now.Add(90 * time.Second)}
	assert.Equal(t, 90, res.RetryAfter(now))

	// Never reports less than a second.
	res = Result{ResetAt: now.Add(-time.Second)}
	assert.Equal(t, 1, res.RetryAfter(now))
}

func TestMemoryIncrement(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	count, ttl, err := m.Increment(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, ttl)

	count, ttl, err = m.Increment(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.LessOrEqual(t, ttl, time.Minute)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestMemoryDropExpired(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	m.Increment(context.Background(), "stale", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	m.dropExpired()

	m.mu.Lock()
	_, ok := m.buckets["stale"]
	m.mu.Unlock()
	assert.False(t, ok)
}
