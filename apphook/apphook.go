// Package apphook declares the ApplicationHook collaborator (spec.md
// section 6.5, design notes section 9): a record of function-valued fields
// injected at construction rather than a deep virtual-inheritance
// override chain. Defaults are provided by DefaultHook; callers override
// individual fields.
package apphook

import (
	"github.com/quantrail/fixcore/fixwire"
	"github.com/quantrail/fixcore/session"
)

// Hook bundles every callback engine.SessionCore invokes into application
// code. Every field has a usable zero-value default supplied by
// DefaultHook; callers overwrite only the fields they need.
type Hook struct {
	// OnApplication handles a non-admin inbound message. Returning false
	// requests a session-level Reject for this seqnum and that the receive
	// cursor not advance.
	OnApplication func(seqnum uint64, msg fixwire.Message) bool

	// Authenticate validates an inbound Logon (acceptor only). Returning
	// false causes the core to send Logout and terminate.
	Authenticate func(id session.ID, logon fixwire.Message) bool

	// ModifyOutbound mutates msg before it is stamped and serialized.
	ModifyOutbound func(msg fixwire.Message)

	// OnAdmin observes every admin message after its specific handler has
	// run, independent of dispatch success. Reject is delivered here (see
	// spec.md design notes open question) without gating state transitions.
	OnAdmin func(seqnum uint64, msg fixwire.Message)

	// OnConnect fires once the raw transport is established, before any
	// bytes are exchanged — supplements the spec with fix8's
	// connection-established hook (see SPEC_FULL.md section 11).
	OnConnect func(id session.ID)
}

// DefaultHook returns a Hook whose fields are safe, inert defaults:
// OnApplication accepts everything, Authenticate accepts everything,
// ModifyOutbound and OnAdmin and OnConnect are no-ops.
func DefaultHook() Hook {
	return Hook{
		OnApplication:  func(uint64, fixwire.Message) bool { return true },
		Authenticate:   func(session.ID, fixwire.Message) bool { return true },
		ModifyOutbound: func(fixwire.Message) {},
		OnAdmin:        func(uint64, fixwire.Message) {},
		OnConnect:      func(session.ID) {},
	}
}

// Merge fills any nil field of h with DefaultHook's corresponding field.
func (h Hook) Merge() Hook {
	d := DefaultHook()
	if h.OnApplication == nil {
		h.OnApplication = d.OnApplication
	}
	if h.Authenticate == nil {
		h.Authenticate = d.Authenticate
	}
	if h.ModifyOutbound == nil {
		h.ModifyOutbound = d.ModifyOutbound
	}
	if h.OnAdmin == nil {
		h.OnAdmin = d.OnAdmin
	}
	if h.OnConnect == nil {
		h.OnConnect = d.OnConnect
	}
	return h
}
