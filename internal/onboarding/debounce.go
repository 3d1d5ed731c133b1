package onboarding

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of triggers into a single call to fn after a
// quiet window has elapsed since the last trigger (trailing edge). Each
// trigger restarts the window. A generation counter guards against a stale
// timer firing after it has been superseded or cancelled: the callback runs
// only if it is still the latest scheduled generation.
type Debouncer struct {
	mu         sync.Mutex
	quiet      time.Duration
	fn         func()
	timer      *time.Timer
	generation uint64
}

// NewDebouncer creates a debouncer that invokes fn after quiet has elapsed
// since the most recent Trigger.
func NewDebouncer(quiet time.Duration, fn func()) *Debouncer {
	return &Debouncer{quiet: quiet, fn: fn}
}

// Trigger schedules (or reschedules) the debounced call.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	gen := d.generation

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		stale := gen != d.generation
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if stale {
			return
		}
		d.fn()
	})
}

// Cancel stops any pending call. A timer that has already fired but not yet
// run its callback observes the generation bump and does nothing.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is currently scheduled. Used by tests.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
