package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer coalesces a burst of triggers into a single action invocation.
// Only the last trigger within the configured quiet interval fires; earlier
// pending invocations are discarded, not queued.
type Debouncer struct {
	interval time.Duration
	action   func()
	mu       sync.Mutex
	timer    *time.Timer
}

// NewDebouncer creates a debouncer that waits for interval of quiet before
// running action. A zero interval fires on the timer's next tick.
func NewDebouncer(interval time.Duration, action func()) *Debouncer {
	return &Debouncer{
		interval: interval,
		action:   action,
	}
}

// Trigger records an event. If no further triggers arrive within the
// interval, the action runs once.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("debounced action panicked", slog.Any("error", r))
			}
		}()

		d.action()
	})
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
