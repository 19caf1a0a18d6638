package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a fixed window kept in process memory. It mirrors
// RedisLimiter's behavior for single-instance deployments and tests.
type MemoryLimiter struct {
	Max    int64
	Window time.Duration

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

type window struct {
	start time.Time
	hits  int64
}

// NewMemoryLimiter builds a MemoryLimiter allowing max hits per window.
func NewMemoryLimiter(max int, windowDur time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		Max:     int64(max),
		Window:  windowDur,
		windows: make(map[string]*window),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)

	l.mu.Lock()
	l.sweep(now, winStart)
	w, ok := l.windows[key]
	if !ok || w.start.Before(winStart) {
		w = &window{start: winStart}
		l.windows[key] = w
	}
	w.hits++
	hits := w.hits
	l.mu.Unlock()

	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= l.Max,
		Remaining:   remaining,
		CurrentHits: hits,
	}
	if !res.Allowed {
		res.RetryAfter = winStart.Add(l.Window).Sub(now)
	}
	return res, nil
}

// sweep drops windows from earlier periods so the map stays bounded by the
// number of distinct clients seen in the current window. Runs at most once
// per window; the caller holds the lock.
func (l *MemoryLimiter) sweep(now, winStart time.Time) {
	if now.Sub(l.lastSweep) < l.Window {
		return
	}
	l.lastSweep = now
	for key, w := range l.windows {
		if w.start.Before(winStart) {
			delete(l.windows, key)
		}
	}
}
