// Package ratelimit implements sliding-window request limiting keyed by
// caller identity.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is the sliding-window rate limit contract. Allow records the
// current request against key when it is admitted; check and record are
// atomic per key.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

type bucket struct {
	mu       sync.Mutex
	times    []time.Time
	lastSeen time.Time
}

// Memory is an in-process Limiter holding an ordered timestamp list per key.
// Keys are guarded individually so concurrent callers for distinct keys never
// contend on one lock, while concurrent callers for the same key serialize
// and cannot both pass a check that should have tripped the limit.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	idleTTL time.Duration
	now     func() time.Time
	done    chan struct{}
	closed  sync.Once
}

// NewMemory constructs an in-memory limiter. Buckets idle longer than
// idleTTL are reclaimed by the sweeper so the key space cannot grow without
// bound.
func NewMemory(idleTTL time.Duration) *Memory {
	if idleTTL <= 0 {
		idleTTL = time.Hour
	}
	return &Memory{
		buckets: make(map[string]*bucket),
		idleTTL: idleTTL,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// WithClock overrides the time source for tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// Allow prunes entries older than the trailing window, admits the request if
// fewer than limit remain, and records the current timestamp when admitted.
// A clock stepping backwards can only shrink the pruned set, so the limiter
// errs toward denial and never admits more than limit per window.
func (m *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) bool {
	if limit <= 0 {
		return false
	}
	now := m.now()

	m.mu.Lock()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{}
		m.buckets[key] = b
	}
	m.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := now.Add(-window)
	kept := b.times[:0]
	for _, t := range b.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	b.times = kept
	b.lastSeen = now

	if len(b.times) >= limit {
		return false
	}
	b.times = append(b.times, now)
	return true
}

// StartSweeper launches a background goroutine reclaiming idle buckets until
// Close is called.
func (m *Memory) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.done:
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
}

// Close stops the sweeper.
func (m *Memory) Close() {
	m.closed.Do(func() { close(m.done) })
}

func (m *Memory) sweep() {
	cutoff := m.now().Add(-m.idleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, b := range m.buckets {
		b.mu.Lock()
		idle := b.lastSeen.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(m.buckets, key)
		}
	}
}

// Len reports the number of tracked keys, used by sweeper tests.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

var _ Limiter = (*Memory)(nil)
