package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count   int64
	resetAt time.Time
}

// Memory is the in-process counter table. It is owned by a single Limiter
// instance, not shared across processes, so limits enforced through it are
// best-effort in scale-out deployments.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	stopCh  chan struct{}
	once    sync.Once
}

// NewMemory creates the table and starts a background sweep that drops
// expired buckets once a minute. Call Close to stop the sweep.
func NewMemory() *Memory {
	m := &Memory{
		buckets: make(map[string]*bucket),
		stopCh:  make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Increment implements Store. The context is accepted for interface
// compatibility; in-process increments complete immediately. The error is
// always nil.
func (m *Memory) Increment(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	b, ok := m.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{count: 1, resetAt: now.Add(window)}
		m.buckets[key] = b
		return 1, window, nil
	}

	b.count++
	ttl := time.Until(b.resetAt)
	if ttl < 0 {
		ttl = 0
	}
	return b.count, ttl, nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stopCh) })
	return nil
}

func (m *Memory) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.dropExpired()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Memory) dropExpired() {
	now := time.Now()
	m.mu.Lock()
	for key, b := range m.buckets {
		if now.After(b.resetAt) {
			delete(m.buckets, key)
		}
	}
	m.mu.Unlock()
}
