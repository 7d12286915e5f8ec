// Package ui provides debouncing utilities for event handling.
package ui

import (
	"sync"
	"time"
)

// Debouncer collapses rapid events like keystrokes into a single
// trailing call.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a new debouncer with the specified duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce executes fn after the debounce duration has elapsed without
// any new calls. Rapid successive calls reset the timer.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel cancels any pending debounced call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// SearchDebouncer debounces a live search box: the handler only runs
// with the final query once typing pauses.
type SearchDebouncer struct {
	mu        sync.Mutex
	debouncer *Debouncer
	pending   string
	last      string
}

// NewSearchDebouncer creates a debouncer for search input.
func NewSearchDebouncer(duration time.Duration) *SearchDebouncer {
	return &SearchDebouncer{debouncer: NewDebouncer(duration)}
}

// Search debounces a query change, calling handler only after typing
// settles.
func (sd *SearchDebouncer) Search(query string, handler func(string)) {
	sd.mu.Lock()
	sd.pending = query
	sd.mu.Unlock()

	sd.debouncer.Debounce(func() {
		sd.mu.Lock()
		q := sd.pending
		sd.last = q
		sd.mu.Unlock()

		handler(q)
	})
}

// LastQuery returns the last query handed to the handler.
func (sd *SearchDebouncer) LastQuery() string {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	return sd.last
}

// Cancel drops any pending query.
func (sd *SearchDebouncer) Cancel() {
	sd.debouncer.Cancel()
}

// DefaultSearchDuration is the debounce applied to the search box.
const DefaultSearchDuration = 250 * time.Millisecond
