package diff

import "time"

// Timeout is a coarse-grained, polled time budget threaded through every
// non-trivial stage of the engine (spec.md §5). It is never fatal: callers
// that observe an invalid timeout stop early and return partial results,
// setting hitTimeout on the way out.
type Timeout struct {
	deadline time.Time
	infinite bool
}

// InfiniteTimeout returns a [Timeout] that is always valid.
func InfiniteTimeout() *Timeout {
	return &Timeout{infinite: true}
}

// NewDeadlineTimeout returns a [Timeout] valid until d has elapsed from now.
func NewDeadlineTimeout(d time.Duration) *Timeout {
	return &Timeout{deadline: time.Now().Add(d)}
}

// NewTimeout builds the timeout described by maxComputationTimeMs: zero
// means no limit, per spec.md §6.
func NewTimeout(maxComputationTimeMs int) *Timeout {
	if maxComputationTimeMs <= 0 {
		return InfiniteTimeout()
	}
	return NewDeadlineTimeout(time.Duration(maxComputationTimeMs) * time.Millisecond)
}

// IsValid reports whether the timeout has not yet expired.
func (t *Timeout) IsValid() bool {
	if t == nil || t.infinite {
		return true
	}
	return time.Now().Before(t.deadline)
}
