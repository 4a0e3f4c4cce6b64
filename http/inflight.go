package http

import "sync"

// InFlightLimiter allows at most one outstanding request per client key. A
// form submits one estimate at a time, so a second concurrent one from the
// same session is a double submit.
type InFlightLimiter struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewInFlightLimiter() *InFlightLimiter {
	return &InFlightLimiter{active: make(map[string]struct{})}
}

func (l *InFlightLimiter) Acquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.active[key]; busy {
		return false
	}
	l.active[key] = struct{}{}
	return true
}

func (l *InFlightLimiter) Release(key string) {
	l.mu.Lock()
	delete(l.active, key)
	l.mu.Unlock()
}
