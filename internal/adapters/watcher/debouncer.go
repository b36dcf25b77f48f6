// Package watcher implements file system watching for rebuild-on-change.
package watcher

import (
	"maps"
	"slices"
	"sync"
	"time"

	"go.trai.ch/mindc/internal/core/domain"
)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

// Debouncer coalesces rapid file system events into one batch of changed paths.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[domain.InternedString]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
	stopped  bool
}

// NewDebouncer creates a new debouncer with the given time window and callback.
// A non-positive window uses DefaultDebounceWindow.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{
		pending:  make(map[domain.InternedString]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records a changed path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[domain.NewInternedString(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	paths := d.takeLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Flush immediately hands all pending paths to the callback and blocks until
// it returns.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	paths := d.takeLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Stop discards pending paths. Later calls to Add are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}

// takeLocked returns the pending paths sorted and clears the set.
// Must be called with d.mu held.
func (d *Debouncer) takeLocked() []string {
	if len(d.pending) == 0 {
		return nil
	}
	paths := slices.SortedFunc(maps.Keys(d.pending), domain.InternedString.Compare)
	clear(d.pending)
	return domain.Strings(paths)
}
