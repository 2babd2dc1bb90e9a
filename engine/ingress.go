package engine

import (
	"context"

	"github.com/quantrail/fixcore/fixwire"
	"github.com/quantrail/fixcore/session"
)

// seqAction is the outcome of enforceSequenceLocked.
type seqAction int

const (
	seqAccept seqAction = iota
	seqPossDup
	seqGap
	seqFatal
)

// enforceCompIDLocked verifies the inbound header identifies the two
// counterparties the way this session's ID says they should be (spec.md
// section 4.1 step 2, "Compid check"). On mismatch it sends Logout and
// moves to logoff_sent; it never persists the rejected frame since only
// outbound traffic is persisted.
func (c *Core) enforceCompIDLocked(msg fixwire.Message) bool {
	id := c.sess.ID
	if msg.SenderCompID() == id.TargetCompID && msg.TargetCompID() == id.SenderCompID {
		return true
	}
	_ = c.sendLogoutLocked("compid mismatch")
	c.sess.SetState(session.LogoffSent)
	return false
}

// enforceSequenceLocked implements the sequence check in spec.md section
// 4.1 step 2.
func (c *Core) enforceSequenceLocked(seqnum uint64, msg fixwire.Message) seqAction {
	expected := c.sess.Cursor.NextReceive()
	switch {
	case seqnum == expected:
		return seqAccept
	case seqnum < expected:
		if msg.PossDupFlag() {
			return seqPossDup
		}
		_ = c.sendLogoutLocked("sequence too low")
		c.terminateLocked(nil)
		return seqFatal
	default:
		c.beginGapLocked(expected, seqnum, msg)
		return seqGap
	}
}

// beginGapLocked records the gap, buffers the triggering message, and asks
// the peer to fill [expected, infinity) (spec.md section 4.1 step 2,
// "seqnum > E" branch).
func (c *Core) beginGapLocked(expected, seqnum uint64, msg fixwire.Message) {
	rctx := session.NewRetransmissionContext(expected, 0, seqnum)
	if !c.sess.BeginRetransmission(rctx) {
		c.generateRejectLocked(seqnum, "resend already in flight")
		return
	}
	c.pendingGap = msg
	c.sess.SetState(session.ResendRequestSent)
	_ = c.sendResendRequestLocked(expected, 0)
}

// dispatchLocked routes msg to its admin handler or to the
// ApplicationHook (spec.md section 4.1 step 3).
func (c *Core) dispatchLocked(ctx context.Context, seqnum uint64, msg fixwire.Message) bool {
	if msg.MsgType().IsAdmin() {
		ok := c.dispatchAdminLocked(ctx, seqnum, msg)
		c.hook.OnAdmin(seqnum, msg)
		return ok
	}
	ok := c.hook.OnApplication(seqnum, msg)
	return ok
}

func (c *Core) dispatchAdminLocked(ctx context.Context, seqnum uint64, msg fixwire.Message) bool {
	switch msg.MsgType() {
	case fixwire.MsgTypeLogon:
		return c.handleLogonLocked(msg)
	case fixwire.MsgTypeLogout:
		return c.handleLogoutLocked(msg)
	case fixwire.MsgTypeHeartbeat:
		return true
	case fixwire.MsgTypeTestRequest:
		return c.handleTestRequestLocked(msg)
	case fixwire.MsgTypeResendRequest:
		return c.handleResendRequestLocked(msg)
	case fixwire.MsgTypeSequenceReset:
		return c.handleSequenceResetLocked(msg)
	case fixwire.MsgTypeReject:
		// Observable via ApplicationHook.OnAdmin only; does not gate state
		// transitions (spec.md section 9 design notes open question).
		return true
	default:
		return true
	}
}
