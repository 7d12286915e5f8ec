// Package viewstate is the per-view state core shared by every screen:
// a tri-state request container (loading / ready / failed), a
// fetch-reconcile sequence guard, and an optimistic mutation handler
// with full rollback. Views hold one container per logical resource;
// all reads and writes happen on the UI event loop, so the package is
// not internally synchronized.
package viewstate

import "errors"

// Status is the request state of one resource view.
type Status int

const (
	// Idle means no fetch has ever been issued.
	Idle Status = iota
	// Loading means a fetch is in flight.
	Loading
	// Ready means the snapshot reflects the last successful fetch or
	// applied mutation.
	Ready
	// Failed means the last fetch failed. A previous snapshot, if any,
	// is preserved and flagged stale.
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrMutationPending is returned when a second optimistic mutation is
// applied before the first resolves.
var ErrMutationPending = errors.New("viewstate: a mutation is already pending")

// ErrNotReady is returned when a mutation is applied to a view that has
// no confirmed snapshot yet.
var ErrNotReady = errors.New("viewstate: view has no ready snapshot")

// Container holds the view state for one collection resource.
//
// Overlapping fetches are resolved last-writer-wins by issue order:
// BeginLoad returns a sequence number, and a resolution carrying a
// sequence older than the newest issued load is discarded. This keeps
// a slow stale response from overwriting a newer one.
type Container[T any] struct {
	status   Status
	snapshot []T
	err      error
	stale    bool

	seq     uint64 // newest issued load
	pending []T    // pre-mutation snapshot while a mutation is in flight
	mutated bool
}

// NewContainer returns an Idle container with no data.
func NewContainer[T any]() *Container[T] {
	return &Container[T]{}
}

// Status returns the current request state.
func (c *Container[T]) Status() Status { return c.status }

// Snapshot returns the current data. Callers must not mutate it
// directly; use Apply.
func (c *Container[T]) Snapshot() []T { return c.snapshot }

// Err returns the error from the last failed fetch, or nil.
func (c *Container[T]) Err() error { return c.err }

// Stale reports whether the snapshot predates the last failure or was
// seeded from the offline cache. Stale data is rendered marked, never
// as fresh.
func (c *Container[T]) Stale() bool { return c.stale }

// Seed pre-fills an Idle container with cached data, flagged stale.
// It is a no-op once any fetch has been issued.
func (c *Container[T]) Seed(data []T) {
	if c.status != Idle || c.seq != 0 {
		return
	}
	c.snapshot = data
	c.stale = len(data) > 0
}

// BeginLoad transitions to Loading, clears any error, and returns the
// sequence number the eventual Succeed/Fail call must present.
// Re-entrant: calling while already Loading just supersedes the older
// in-flight request.
func (c *Container[T]) BeginLoad() uint64 {
	c.seq++
	c.status = Loading
	c.err = nil
	// Existing data stays visible but is stale until this load lands.
	if len(c.snapshot) > 0 {
		c.stale = true
	}
	return c.seq
}

// Succeed installs data as the authoritative snapshot. Returns false if
// a newer load superseded seq, in which case nothing changes. A zero
// seq never matches: there is no path from Idle to Ready that skips
// Loading.
func (c *Container[T]) Succeed(seq uint64, data []T) bool {
	if seq == 0 || seq != c.seq {
		return false
	}
	c.status = Ready
	c.snapshot = data
	c.err = nil
	c.stale = false
	c.pending = nil
	c.mutated = false
	return true
}

// Fail records a fetch failure. The last-good snapshot, if any, is
// preserved and remains stale. Returns false if seq was superseded.
func (c *Container[T]) Fail(seq uint64, err error) bool {
	if seq == 0 || seq != c.seq {
		return false
	}
	c.status = Failed
	c.err = err
	return true
}

// Apply performs an optimistic local mutation. The pre-mutation
// snapshot is retained so Revert can restore it exactly. Only one
// mutation may be pending at a time, and the view must be Ready.
func (c *Container[T]) Apply(change func([]T) []T) error {
	if c.status != Ready {
		return ErrNotReady
	}
	if c.mutated {
		return ErrMutationPending
	}
	c.pending = make([]T, len(c.snapshot))
	copy(c.pending, c.snapshot)
	c.snapshot = change(c.snapshot)
	c.mutated = true
	return nil
}

// Confirm reconciles the optimistic snapshot against the authoritative
// server result and clears the pending mutation. reconcile may be nil
// when the optimistic value already matches the server's.
func (c *Container[T]) Confirm(reconcile func([]T) []T) {
	if !c.mutated {
		return
	}
	if reconcile != nil {
		c.snapshot = reconcile(c.snapshot)
	}
	c.pending = nil
	c.mutated = false
}

// Revert restores the pre-mutation snapshot after a failed mutation.
// No partial state survives.
func (c *Container[T]) Revert() {
	if !c.mutated {
		return
	}
	c.snapshot = c.pending
	c.pending = nil
	c.mutated = false
}

// MutationPending reports whether an optimistic mutation awaits its
// server resolution.
func (c *Container[T]) MutationPending() bool { return c.mutated }
