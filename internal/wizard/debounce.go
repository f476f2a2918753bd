package wizard

import (
	"sync"
	"time"
)

// DefaultAutosaveDelay is the quiet period before a draft write fires
const DefaultAutosaveDelay = 500 * time.Millisecond

// Debouncer coalesces bursts of triggers into a single invocation of fn
// once the quiet period elapses. A trigger while a run is pending resets
// the timer, so rapid edits produce one write instead of one per keystroke.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

// NewDebouncer returns a debouncer that runs fn after delay of inactivity.
// A non-positive delay falls back to DefaultAutosaveDelay.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules fn, resetting the timer if a run is already pending
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels a pending run that has not fired yet. A run already past
// its timer cannot be cancelled here; callers guard against stragglers
// themselves.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
