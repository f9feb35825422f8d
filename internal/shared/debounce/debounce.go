// Package debounce provides a cancel-and-replace timer.
//
// One Timer exists per purpose (layout save, resize relayout, sidebar
// settle...). Triggering a Timer that already has pending work replaces
// that work and restarts the delay, so at most one callback per purpose is
// ever in flight.
package debounce

import (
	"sync"
	"time"
)

// Timer runs the most recently triggered callback once its delay has
// passed without another trigger.
type Timer struct {
	name  string
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
}

// New creates a timer with a default delay
func New(name string, delay time.Duration) *Timer {
	return &Timer{name: name, delay: delay}
}

// Name returns the purpose this timer was created for
func (t *Timer) Name() string {
	return t.name
}

// Trigger schedules fn after the default delay, replacing pending work
func (t *Timer) Trigger(fn func()) {
	t.TriggerAfter(t.delay, fn)
}

// TriggerAfter schedules fn after d, replacing pending work
func (t *Timer) TriggerAfter(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.pending = fn
	t.timer = time.AfterFunc(d, func() { t.fire(gen) })
}

// fire runs the pending callback if it has not been replaced since
func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.pending == nil {
		t.mu.Unlock()
		return
	}
	fn := t.pending
	t.pending = nil
	t.timer = nil
	t.mu.Unlock()

	fn()
}

// Cancel drops pending work. Returns true if something was pending.
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	had := t.pending != nil
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	t.timer = nil
	t.pending = nil
	return had
}

// Flush runs pending work immediately on the caller's goroutine.
// Returns true if something ran.
func (t *Timer) Flush() bool {
	t.mu.Lock()
	fn := t.pending
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	t.timer = nil
	t.pending = nil
	t.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a callback is waiting to run
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}
