package session

import "sync"

// RetransmissionContext tracks one in-flight resend: the range requested,
// the seqnum that triggered the gap (if any), and how far replay has
// progressed. At most one context exists per direction; engine.SessionCore
// refuses a second ResendRequest while one is active.
type RetransmissionContext struct {
	mu sync.Mutex

	Begin             uint64
	End               uint64 // 0 means "through infinity"
	InterruptedSeqnum uint64
	last              uint64
	noMoreRecords     bool
}

// NewRetransmissionContext creates a context for the inclusive range
// [begin, end] (end == 0 meaning unbounded).
func NewRetransmissionContext(begin, end, interrupted uint64) *RetransmissionContext {
	return &RetransmissionContext{Begin: begin, End: end, InterruptedSeqnum: interrupted, last: begin - 1}
}

// Last returns the highest seqnum delivered so far by this replay.
func (r *RetransmissionContext) Last() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Advance moves last forward to seqnum. It is a programmer error to call
// this with a seqnum that would make last decrease or exceed End (when
// bounded); callers are expected to respect the replay range.
func (r *RetransmissionContext) Advance(seqnum uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seqnum > r.last {
		r.last = seqnum
	}
}

// MarkNoMoreRecords latches completion. Idempotent.
func (r *RetransmissionContext) MarkNoMoreRecords() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noMoreRecords = true
}

// Drained reports whether the replay has terminated: either NoMoreRecords
// latched, or last has reached End (only meaningful when End != 0).
func (r *RetransmissionContext) Drained() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.noMoreRecords {
		return true
	}
	return r.End != 0 && r.last >= r.End
}
