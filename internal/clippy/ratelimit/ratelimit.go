// Package ratelimit caps outbound remote analysis calls.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults
const (
	DefaultCapacity = 10
	DefaultWindow   = time.Minute
)

// Limiter allows at most Capacity recorded calls in any rolling Window
type Limiter struct {
	mu       sync.Mutex
	calls    []time.Time
	capacity int
	window   time.Duration
	now      func() time.Time
}

// Option configures a Limiter
type Option func(*Limiter)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a limiter allowing capacity calls per window. Non-positive values use the defaults.
func New(capacity int, window time.Duration, opts ...Option) *Limiter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{
		calls:    make([]time.Time, 0, capacity),
		capacity: capacity,
		window:   window,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// prune drops calls that left the window. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}

// CanMakeRequest reports whether one more call fits in the current window
func (l *Limiter) CanMakeRequest() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.calls) < l.capacity
}

// RecordRequest records one call. It reports false, recording nothing, when the window is full.
func (l *Limiter) RecordRequest() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.prune(now)
	if len(l.calls) >= l.capacity {
		return false
	}
	l.calls = append(l.calls, now)
	return true
}

// Remaining returns how many calls still fit in the current window
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return l.capacity - len(l.calls)
}

// ResetIn returns how long until the oldest recorded call leaves the window, or zero when a call fits now
func (l *Limiter) ResetIn() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.prune(now)
	if len(l.calls) < l.capacity {
		return 0
	}
	return l.calls[0].Add(l.window).Sub(now)
}

// Capacity returns the maximum calls per window
func (l *Limiter) Capacity() int { return l.capacity }

// Window returns the rolling window length
func (l *Limiter) Window() time.Duration { return l.window }
