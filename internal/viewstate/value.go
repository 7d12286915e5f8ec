package viewstate

// Value is the single-record counterpart to Container, used for views
// backed by one object (stats header, coaching brief, market data).
// Same tri-state lifecycle and sequence guard, no mutation support.
type Value[T any] struct {
	status Status
	value  T
	err    error
	stale  bool
	seq    uint64
}

// NewValue returns an Idle value holder.
func NewValue[T any]() *Value[T] {
	return &Value[T]{}
}

// Status returns the current request state.
func (v *Value[T]) Status() Status { return v.status }

// Get returns the held record (zero value until the first success).
func (v *Value[T]) Get() T { return v.value }

// Err returns the error from the last failed fetch, or nil.
func (v *Value[T]) Err() error { return v.err }

// Stale reports whether the record predates the last failure.
func (v *Value[T]) Stale() bool { return v.stale }

// BeginLoad transitions to Loading and returns the guard sequence.
func (v *Value[T]) BeginLoad() uint64 {
	v.seq++
	v.status = Loading
	v.err = nil
	if v.seq > 1 {
		v.stale = true
	}
	return v.seq
}

// Succeed installs the authoritative record unless seq was superseded.
func (v *Value[T]) Succeed(seq uint64, value T) bool {
	if seq == 0 || seq != v.seq {
		return false
	}
	v.status = Ready
	v.value = value
	v.err = nil
	v.stale = false
	return true
}

// Fail records a fetch failure unless seq was superseded.
func (v *Value[T]) Fail(seq uint64, err error) bool {
	if seq == 0 || seq != v.seq {
		return false
	}
	v.status = Failed
	v.err = err
	return true
}
