package application

import (
	"sync"
	"time"
)

// RateLimiter is a per-guild fixed-window admission check for expensive
// administrative operations. State is in-memory only; losing it on restart
// fails open, which is acceptable for abuse mitigation.
type RateLimiter struct {
	mu     sync.Mutex
	state  map[string]*window
	window time.Duration
	max    int
	now    func() time.Time
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter creates a limiter allowing maxRequests per guild within each
// fixed window.
func NewRateLimiter(windowDur time.Duration, maxRequests int) *RateLimiter {
	return NewRateLimiterAt(windowDur, maxRequests, time.Now)
}

// NewRateLimiterAt creates a limiter with an injected clock, for tests.
func NewRateLimiterAt(windowDur time.Duration, maxRequests int, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		state:  make(map[string]*window),
		window: windowDur,
		max:    maxRequests,
		now:    now,
	}
}

// Check records an attempt for the guild and reports whether it is admitted.
// When denied, retryAfter is the number of seconds remaining in the current
// window, never less than 1. The lock is held only for the check-and-update,
// never across I/O.
func (l *RateLimiter) Check(guildID string) (retryAfter int64, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, found := l.state[guildID]
	if !found {
		l.state[guildID] = &window{start: now, count: 1}
		return 0, true
	}

	if now.Sub(w.start) > l.window {
		w.start = now
		w.count = 1
		return 0, true
	}

	if w.count >= l.max {
		elapsed := int64(now.Sub(w.start).Seconds())
		wait := int64(l.window.Seconds()) - elapsed
		if wait < 1 {
			wait = 1
		}
		return wait, false
	}

	w.count++
	return 0, true
}

// Cleanup drops expired windows. Call periodically to bound memory across
// many guilds.
func (l *RateLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for guildID, w := range l.state {
		if now.Sub(w.start) > l.window {
			delete(l.state, guildID)
		}
	}
}
