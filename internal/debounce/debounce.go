// Package debounce runs the last of a burst of calls after a quiet interval.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the typeahead quiet interval.
const DefaultDelay = 300 * time.Millisecond

// Debouncer schedules at most one pending task. Each Call cancels the previous one.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New constructs a Debouncer. Non-positive delays use DefaultDelay.
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the quiet interval.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Call cancels any pending task and schedules fn after the delay.
// It reports false once the debouncer is stopped.
func (d *Debouncer) Call(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.run(gen, fn)
	})
	return true
}

// Cancel drops the pending task, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels the pending task and rejects later calls.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.cancelLocked()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// run executes fn only if no newer call or cancel happened since it was scheduled.
// A timer that already fired can still lose to a later Call.
func (d *Debouncer) run(gen uint64, fn func()) {
	d.mu.Lock()
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	fn()
}
