package http

import (
	"sync"
	"time"
)

const idleSweepInterval = 10 * time.Minute

// RateLimiter is a per-client token bucket kept in its generic cell rate
// form: a client may burst up to capacity requests, after which one request
// is admitted every window/capacity. Each client is a single timestamp, the
// moment its bucket would be full again.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	burst    time.Duration
	fullAt   map[string]time.Time
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := newRateLimiter(capacity, window, time.Now)
	go rl.sweepLoop()
	return rl
}

func newRateLimiter(capacity int, window time.Duration, now func() time.Time) *RateLimiter {
	if capacity < 1 {
		capacity = 1
	}
	interval := window / time.Duration(capacity)
	return &RateLimiter{
		interval: interval,
		burst:    interval * time.Duration(capacity-1),
		fullAt:   make(map[string]time.Time),
		now:      now,
		done:     make(chan struct{}),
	}
}

// Allow reports whether key may proceed now.
func (r *RateLimiter) Allow(key string) bool {
	ok, _ := r.Take(key)
	return ok
}

// Take spends one token for key. When none is left it returns false and how
// long until the next one is available.
func (r *RateLimiter) Take(key string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	tat, ok := r.fullAt[key]
	if !ok || tat.Before(now) {
		tat = now
	}
	if over := tat.Sub(now) - r.burst; over > 0 {
		return false, over
	}
	r.fullAt[key] = tat.Add(r.interval)
	return true, 0
}

func (r *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(idleSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.done:
			return
		}
	}
}

// sweep forgets clients whose bucket is full again; an unknown client starts
// with a full bucket, so nothing changes for them.
func (r *RateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, tat := range r.fullAt {
		if !tat.After(now) {
			delete(r.fullAt, key)
		}
	}
}

// Stop ends the sweep goroutine. It may be called more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}
