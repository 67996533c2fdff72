package ratelimit

import (
	"sync"
	"time"
)

// Limiter implements fixed-window rate limiting per key.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int           // requests per window
	period  time.Duration // window length
	done    chan struct{}
}

type window struct {
	count   int
	resetAt time.Time
}

// Decision describes the outcome of one Take.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// New creates a new Limiter.
func New(limit int, period time.Duration) *Limiter {
	l := &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		done:    make(chan struct{}),
	}

	// Start background cleanup
	go l.cleanup()

	return l
}

// Close stops the background cleanup goroutine.
func (l *Limiter) Close() {
	close(l.done)
}

// Allow reports whether a request for key is allowed, consuming one slot if so.
func (l *Limiter) Allow(key string) bool {
	return l.Take(key).Allowed
}

// Take consumes one slot for key when available and reports the window state.
func (l *Limiter) Take(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}

	limit := max(l.limit, 0)
	d := Decision{Limit: limit, ResetAt: w.resetAt}
	if w.count < limit {
		w.count++
		d.Allowed = true
	}
	d.Remaining = max(limit-w.count, 0)
	return d
}

// cleanup periodically removes expired windows.
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for key, w := range l.windows {
				if !now.Before(w.resetAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}
