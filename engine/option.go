package engine

import (
	"time"

	"github.com/quantrail/fixcore/apphook"
	"github.com/quantrail/fixcore/fixwire"
	"github.com/quantrail/fixcore/persist"
	"github.com/quantrail/fixcore/session"
)

// Option configures a Core at construction, generalizing the teacher's
// options.go functional-options style from a single nano.Listen(addr,
// opts...) call to this engine's richer configuration surface.
type Option func(*Core)

// WithLoginParameters overrides the default heartbeat/retry policy.
func WithLoginParameters(p session.LoginParameters) Option {
	return func(c *Core) { c.login = p }
}

// WithHeartbeatIntervalSecs overrides only the heartbeat interval, leaving
// the rest of the login policy at its default.
func WithHeartbeatIntervalSecs(secs int) Option {
	return func(c *Core) { c.login.HeartbeatIntervalSecs = secs }
}

// WithApplicationHook installs the ApplicationHook collaborator. Fields the
// caller leaves nil fall back to apphook.DefaultHook's no-ops.
func WithApplicationHook(h apphook.Hook) Option {
	return func(c *Core) { c.hook = h }
}

// WithPersister overrides the default in-memory Persister.
func WithPersister(p persist.Persister) Option {
	return func(c *Core) { c.persister = p }
}

// WithClock overrides the time source, for deterministic tests of the
// heartbeat scheduler and timeouts.
func WithClock(fn func() time.Time) Option {
	return func(c *Core) { c.clock = fn }
}

// WithControlFlags injects an externally-owned ControlFlags, so a process
// exposing the admin control plane (controlsvc) can share the same bitset
// the heartbeat scheduler checks rather than polling a copy.
func WithControlFlags(flags *session.ControlFlags) Option {
	return func(c *Core) { c.controlFlags = flags }
}

// WithAcceptor marks this Core as the passive side of the handshake: it
// starts in session.WaitForLogon and waits for the peer's Logon instead of
// sending one on Start. Default is initiator mode.
func WithAcceptor() Option {
	return func(c *Core) { c.initiator = false }
}

// WithNonResendableTypes overrides which admin message types are coalesced
// into a SequenceReset-GapFill during replay instead of being resent
// as-is. Defaults to the full admin set per spec.md section 4.5; fix8
// additionally makes this configurable (see SPEC_FULL.md section 11).
func WithNonResendableTypes(types ...fixwire.MsgType) Option {
	return func(c *Core) {
		set := make(map[fixwire.MsgType]bool, len(types))
		for _, t := range types {
			set[t] = true
		}
		c.nonResendable = set
	}
}

// WithTestReqIDGenerator overrides how TestReqID values are minted,
// defaulting to a random UUID (see SPEC_FULL.md section 10.4).
func WithTestReqIDGenerator(fn func() string) Option {
	return func(c *Core) { c.testReqID = fn }
}

func defaultNonResendable() map[fixwire.MsgType]bool {
	return map[fixwire.MsgType]bool{
		fixwire.MsgTypeLogon:         true,
		fixwire.MsgTypeLogout:        true,
		fixwire.MsgTypeHeartbeat:     true,
		fixwire.MsgTypeTestRequest:   true,
		fixwire.MsgTypeResendRequest: true,
		fixwire.MsgTypeSequenceReset: true,
		fixwire.MsgTypeReject:        true,
	}
}
