package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// MemoryFixedWindowLimiter is an in-process limiter for single-instance
// deployments and tests. Counters live in a map keyed by (key, window slot);
// stale slots are dropped opportunistically on each call.
type MemoryFixedWindowLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu     sync.Mutex
	counts map[string]int
	slot   int64
}

// NewMemoryFixedWindowLimiter creates an in-memory fixed-window limiter.
// Limit and window must be positive; zero values fall back to 1 request
// per minute.
func NewMemoryFixedWindowLimiter(limit int, window time.Duration) *MemoryFixedWindowLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryFixedWindowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		counts: make(map[string]int),
	}
}

// Allow consumes one slot for key and reports whether it is within quota.
func (l *MemoryFixedWindowLimiter) Allow(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}
	slot := l.now().UTC().UnixMilli() / l.window.Milliseconds()

	l.mu.Lock()
	defer l.mu.Unlock()
	if slot != l.slot {
		// Window boundary crossed: every key starts fresh.
		l.slot = slot
		l.counts = make(map[string]int)
	}
	l.counts[key]++
	return l.counts[key] <= l.limit
}
