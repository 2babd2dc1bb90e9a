package engine

import (
	"github.com/quantrail/fixcore/fixwire"
	"github.com/quantrail/fixcore/session"
)

// handleLogonLocked implements the logon handshake from both sides of
// spec.md section 4.4. An acceptor still in wait_for_logon authenticates
// the peer and echoes Logon; an initiator receiving the echo (or an
// acceptor's own Logon reflected back by a loopback peer in tests) simply
// confirms the session as continuous.
func (c *Core) handleLogonLocked(msg fixwire.Message) bool {
	if !c.initiator && c.sess.State() == session.WaitForLogon {
		if !c.hook.Authenticate(c.sess.ID, msg) {
			_ = c.sendLogoutLocked("authentication failed")
			c.terminateLocked(newError(KindAuthFailure, errAuthRejected))
			return false
		}
		if err := c.sendLogonLocked(fieldBool(msg, tagResetSeqNumFlag)); err != nil {
			c.log.Error("failed to echo Logon", "error", err)
			return false
		}
	}
	c.sess.SetState(session.Continuous)
	return true
}

// handleLogoutLocked implements spec.md section 4.4's Logout rules: a
// Logout received in an established state is answered in kind before the
// session terminates; one received while already in logoff_sent
// terminates silently.
func (c *Core) handleLogoutLocked(msg fixwire.Message) bool {
	if c.sess.State() != session.LogoffSent {
		_ = c.sendLogoutLocked("")
	}
	c.terminateLocked(nil)
	return true
}

// handleTestRequestLocked echoes a Heartbeat carrying the same TestReqID,
// the liveness probe's required reply.
func (c *Core) handleTestRequestLocked(msg fixwire.Message) bool {
	id, _ := msg.Field(tagTestReqID)
	if err := c.sendHeartbeatLocked(id); err != nil {
		c.log.Error("failed to answer TestRequest", "error", err)
		return false
	}
	return true
}

// handleSequenceResetLocked implements spec.md section 4.5's two modes:
// GapFill only advances, Reset mode sets unconditionally except fix8's
// refinement against lowering next_receive_seq (SPEC_FULL.md section 11).
func (c *Core) handleSequenceResetLocked(msg fixwire.Message) bool {
	v, ok := msg.Field(tagNewSeqNo)
	if !ok {
		c.generateRejectLocked(msg.SeqNum(), "SequenceReset missing NewSeqNo")
		return false
	}
	newSeqNo := parseUint(v)

	if fieldBool(msg, tagGapFillFlag) {
		if newSeqNo > c.sess.Cursor.NextReceive() {
			c.sess.Cursor.ResetReceive(newSeqNo)
			c.putCursorLocked(session.Receive, newSeqNo)
		}
		return true
	}

	if newSeqNo < c.sess.Cursor.NextReceive() {
		c.generateRejectLocked(msg.SeqNum(), "SequenceReset would lower next_receive_seq")
		return false
	}
	c.sess.Cursor.ResetReceive(newSeqNo)
	c.putCursorLocked(session.Receive, newSeqNo)
	return true
}
