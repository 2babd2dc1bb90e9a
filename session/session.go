package session

import (
	"sync"
	"sync/atomic"
	"time"
)

// Session is the pure data model for one FIX session: its identity,
// current state, sequence cursor, control flags, login parameters, and the
// monotonic timestamps of the last I/O in each direction. It has no
// knowledge of a Connection, Codec, or Persister — engine.SessionCore wires
// those around a Session to implement the ingress/egress pipelines.
type Session struct {
	ID     ID
	Cursor *Cursor
	Control *ControlFlags
	Login  LoginParameters

	state atomic.Int64 // State, stored as int64 for atomic access

	lastSentNanos     atomic.Int64
	lastReceivedNanos atomic.Int64
	stateEnteredNanos atomic.Int64

	mu sync.Mutex

	retrans *RetransmissionContext // nil when no resend is in flight
}

// New constructs a Session in NotLoggedIn state with a fresh cursor.
func New(id ID, login LoginParameters) *Session {
	s := &Session{
		ID:      id,
		Cursor:  NewCursor(0, 0),
		Control: &ControlFlags{},
		Login:   login,
	}
	s.state.Store(int64(NotLoggedIn))
	now := time.Now().UnixNano()
	s.stateEnteredNanos.Store(now)
	return s
}

// State returns the current state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// SetState transitions the session, recording the transition time so the
// heartbeat scheduler can detect logon timeouts.
func (s *Session) SetState(next State) {
	s.state.Store(int64(next))
	s.stateEnteredNanos.Store(time.Now().UnixNano())
}

// StateEntered returns the time the current state was entered.
func (s *Session) StateEntered() time.Time {
	return time.Unix(0, s.stateEnteredNanos.Load())
}

// Established reports whether the current state is established.
func (s *Session) Established() bool {
	return s.State().Established()
}

// TouchSent records now as the last-sent timestamp.
func (s *Session) TouchSent(now time.Time) {
	s.lastSentNanos.Store(now.UnixNano())
}

// TouchReceived records now as the last-received timestamp.
func (s *Session) TouchReceived(now time.Time) {
	s.lastReceivedNanos.Store(now.UnixNano())
}

// LastSent returns the last-sent timestamp.
func (s *Session) LastSent() time.Time {
	return time.Unix(0, s.lastSentNanos.Load())
}

// LastReceived returns the last-received timestamp.
func (s *Session) LastReceived() time.Time {
	return time.Unix(0, s.lastReceivedNanos.Load())
}

// BeginRetransmission installs a new RetransmissionContext, returning false
// if one is already active (at most one resend in flight per direction).
func (s *Session) BeginRetransmission(ctx *RetransmissionContext) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retrans != nil && !s.retrans.Drained() {
		return false
	}
	s.retrans = ctx
	return true
}

// Retransmission returns the active context, or nil.
func (s *Session) Retransmission() *RetransmissionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retrans
}

// EndRetransmission clears the active context.
func (s *Session) EndRetransmission() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retrans = nil
}
