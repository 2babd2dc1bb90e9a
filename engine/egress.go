package engine

import (
	"context"

	"github.com/quantrail/fixcore/fixwire"
	"github.com/quantrail/fixcore/obslog"
	"github.com/quantrail/fixcore/session"
)

// sendProcessLocked implements spec.md section 4.2, the egress pipeline
// for genuinely new outbound traffic: it consumes the next send sequence
// number, stamps headers, persists, then writes. Replayed/gap-fill frames
// during a resend go through sendReplayLocked instead, since they reuse a
// historical sequence slot rather than consuming a new one.
func (c *Core) sendProcessLocked(msg fixwire.Message, noIncrement bool) error {
	c.hook.ModifyOutbound(msg)

	seq := c.sess.Cursor.AdvanceSend(noIncrement)
	msg.SetSeqNum(seq)
	if !noIncrement {
		if perr := c.persister.PutCursor(context.Background(), c.sess.ID.String(), session.Send, c.sess.Cursor.NextSend()); perr != nil {
			return newError(KindPersistError, perr)
		}
	}
	now := c.clock()
	msg.SetSendingTime(now)
	msg.SetSenderTarget(c.sess.ID.SenderCompID, c.sess.ID.TargetCompID)

	frame, err := c.codec.Encode(msg)
	if err != nil {
		return newError(KindInvalidMetadata, err)
	}
	c.logBoundaryLocked(obslog.WithLogger(context.Background(), c.log), "egress", msg, frame)

	if isPersistable(msg) {
		if perr := c.persister.Put(context.Background(), c.sess.ID.String(), session.Send, seq, frame); perr != nil {
			return newError(KindPersistError, perr)
		}
	}

	if c.conn != nil {
		if werr := c.conn.Write(frame); werr != nil {
			wrapped := newError(KindConnectionError, werr)
			c.terminateLocked(wrapped)
			return wrapped
		}
	}

	c.sess.TouchSent(now)
	return nil
}

// sendReplayLocked writes msg at an explicit historical seqnum without
// touching the send cursor, used for resend replays and gap-fill
// fabrications (spec.md section 4.5). Neither is persisted again: the
// replayed frame is already durable from its first send, and GapFill
// frames are excluded from persistence by spec.md section 4.2 step 5.
func (c *Core) sendReplayLocked(msg fixwire.Message, seqnum uint64) error {
	c.hook.ModifyOutbound(msg)
	msg.SetSeqNum(seqnum)
	msg.SetSendingTime(c.clock())
	msg.SetSenderTarget(c.sess.ID.SenderCompID, c.sess.ID.TargetCompID)

	frame, err := c.codec.Encode(msg)
	if err != nil {
		return newError(KindInvalidMetadata, err)
	}
	if c.conn != nil {
		if werr := c.conn.Write(frame); werr != nil {
			wrapped := newError(KindConnectionError, werr)
			c.terminateLocked(wrapped)
			return wrapped
		}
	}
	c.sess.TouchSent(c.clock())
	return nil
}

// isPersistable reports whether msg belongs in the persisted send log:
// every application message and every admin message except a
// SequenceReset-GapFill (spec.md section 4.2 step 5).
func isPersistable(msg fixwire.Message) bool {
	if msg.MsgType() == fixwire.MsgTypeSequenceReset && fieldBool(msg, tagGapFillFlag) {
		return false
	}
	return true
}

func (c *Core) sendLogonLocked(resetSeqNum bool) error {
	msg, err := c.metadata.Create(fixwire.MsgTypeLogon)
	if err != nil {
		return newError(KindInvalidMetadata, err)
	}
	msg.SetField(tagHeartBtInt, itoa(c.sess.Login.HeartbeatIntervalSecs))
	if resetSeqNum {
		msg.SetField(tagResetSeqNumFlag, "Y")
	}
	return c.sendProcessLocked(msg, false)
}

func (c *Core) sendLogoutLocked(reason string) error {
	msg, err := c.metadata.Create(fixwire.MsgTypeLogout)
	if err != nil {
		return newError(KindInvalidMetadata, err)
	}
	if reason != "" {
		msg.SetField(tagText, reason)
	}
	return c.sendProcessLocked(msg, false)
}

func (c *Core) sendHeartbeatLocked(testReqID string) error {
	msg, err := c.metadata.Create(fixwire.MsgTypeHeartbeat)
	if err != nil {
		return newError(KindInvalidMetadata, err)
	}
	if testReqID != "" {
		msg.SetField(tagTestReqID, testReqID)
	}
	return c.sendProcessLocked(msg, false)
}

func (c *Core) sendTestRequestLocked() error {
	msg, err := c.metadata.Create(fixwire.MsgTypeTestRequest)
	if err != nil {
		return newError(KindInvalidMetadata, err)
	}
	msg.SetField(tagTestReqID, c.testReqID())
	return c.sendProcessLocked(msg, false)
}

func (c *Core) sendResendRequestLocked(begin, end uint64) error {
	msg, err := c.metadata.Create(fixwire.MsgTypeResendRequest)
	if err != nil {
		return newError(KindInvalidMetadata, err)
	}
	msg.SetField(tagBeginSeqNo, uitoa(begin))
	msg.SetField(tagEndSeqNo, uitoa(end))
	return c.sendProcessLocked(msg, false)
}

// generateRejectLocked implements generate_reject (spec.md section 4.6):
// a session-level Reject referencing seqnum, persisted and counted, that
// never changes state on its own.
func (c *Core) generateRejectLocked(seqnum uint64, reason string) {
	msg, err := c.metadata.Create(fixwire.MsgTypeReject)
	if err != nil {
		c.log.Error("cannot construct Reject", "error", err)
		return
	}
	msg.SetField(tagRefSeqNum, uitoa(seqnum))
	msg.SetField(tagText, reason)
	if err := c.sendProcessLocked(msg, false); err != nil {
		c.log.Error("failed to send Reject", "error", err, "ref_seqnum", seqnum)
	}
}
