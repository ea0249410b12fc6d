package core

import (
	"sync"
	"time"
)

// Debouncer calls fire once per path after the path has been quiet for delay
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[string]*time.Timer
	fire    func(path string)
	stopped bool
}

// NewDebouncer creates a debouncer that settles paths after delay
func NewDebouncer(delay time.Duration, fire func(path string)) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		fire:   fire,
	}
}

// Touch restarts the quiet period for path
func (d *Debouncer) Touch(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[path]; ok {
		t.Stop()
	}

	// the callback takes d.mu first, so t is assigned before it compares
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped || d.timers[path] != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, path)
		d.mu.Unlock()

		d.fire(path)
	})
	d.timers[path] = t
}

// Pending returns how many paths are waiting to settle
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending timer; later Touch calls are ignored
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}

// Gate admits one analysis at a time. Work arriving while the gate is
// closed is rejected, not queued. After Release the gate reopens only once
// the cooldown has elapsed.
type Gate struct {
	mu       sync.Mutex
	busy     bool
	cooldown time.Duration
	timer    *time.Timer
	dropped  int64
	stopped  bool
}

// NewGate creates an open gate
func NewGate(cooldown time.Duration) *Gate {
	return &Gate{cooldown: cooldown}
}

// TryAcquire closes the gate and returns true, or counts a drop and returns false
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.busy || g.stopped {
		g.dropped++
		return false
	}
	g.busy = true
	return true
}

// Release reopens the gate after the cooldown
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped {
		return
	}
	if g.cooldown <= 0 {
		g.busy = false
		return
	}
	g.timer = time.AfterFunc(g.cooldown, func() {
		g.mu.Lock()
		g.busy = false
		g.timer = nil
		g.mu.Unlock()
	})
}

// Busy reports whether an analysis or its cooldown is in progress
func (g *Gate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}

// Dropped returns how many settled changes were rejected
func (g *Gate) Dropped() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dropped
}

// Stop cancels a pending cooldown and rejects further work
func (g *Gate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopped = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
