package engine

import (
	"context"

	"github.com/quantrail/fixcore/fixwire"
	"github.com/quantrail/fixcore/session"
)

// handleResendRequestLocked is the peer asking us to replay our own
// outbound history (spec.md section 4.5). It runs the replay synchronously
// while holding mu, which is what gives the ordering guarantee in spec.md
// section 5 ("new outbound app messages are ordered after the terminal
// gap-fill"): any concurrent Send blocks on the same lock until this
// returns.
func (c *Core) handleResendRequestLocked(msg fixwire.Message) bool {
	begin := parseUint(mustField(msg, tagBeginSeqNo))
	end := parseUint(mustField(msg, tagEndSeqNo))

	rctx := session.NewRetransmissionContext(begin, end, 0)
	if !c.sess.BeginRetransmission(rctx) {
		c.generateRejectLocked(msg.SeqNum(), "resend already in flight")
		return false
	}
	c.sess.SetState(session.ResendRequestReceived)

	if err := c.executeResendLocked(rctx); err != nil {
		c.log.Error("resend replay failed", "error", err)
		rctx.MarkNoMoreRecords()
		c.sess.EndRetransmission()
		c.sess.SetState(session.Continuous)
		return false
	}
	return true
}

func mustField(msg fixwire.Message, tag int) string {
	v, _ := msg.Field(tag)
	return v
}

// executeResendLocked implements spec.md section 4.5 steps 1-3: scan
// persisted records in [begin, min(end, highWater)], replaying application
// messages with PossDupFlag=Y, replacing each administrative record with a
// one-slot SequenceReset-GapFill and each hole before a record with one
// gap-fill, then emitting a terminal gap-fill if the requested range
// extends past what we have ever sent. Consecutive administrative records
// are not merged: each gets its own gap-fill.
func (c *Core) executeResendLocked(rctx *session.RetransmissionContext) error {
	defer func() {
		rctx.MarkNoMoreRecords()
		c.sess.EndRetransmission()
		if c.sess.State() == session.ResendRequestReceived {
			c.sess.SetState(session.Continuous)
		}
	}()

	highWater := c.sess.Cursor.NextSend() - 1
	to := rctx.End
	if to == 0 || to > highWater {
		to = highWater
	}

	next := rctx.Begin
	if rctx.Begin <= to {
		records, err := c.persister.GetRange(context.Background(), c.sess.ID.String(), session.Send, rctx.Begin, to)
		if err != nil {
			return newError(KindPersistError, err)
		}

		for _, rec := range records {
			if rec.Seqnum > next {
				if err := c.sendGapFillLocked(next, rec.Seqnum); err != nil {
					return err
				}
			}

			replayMsg, derr := c.codec.Decode(rec.Frame)
			if derr != nil {
				// Can't reconstruct this historical frame; replace its
				// slot with a one-slot gap-fill rather than fail the
				// whole replay.
				if err := c.sendGapFillLocked(rec.Seqnum, rec.Seqnum+1); err != nil {
					return err
				}
			} else if replayMsg.MsgType().IsAdmin() && c.nonResendable[replayMsg.MsgType()] {
				if err := c.sendGapFillLocked(rec.Seqnum, rec.Seqnum+1); err != nil {
					return err
				}
			} else {
				orig := replayMsg.SendingTime()
				replayMsg.SetPossDupFlag(true)
				replayMsg.SetOrigSendingTime(orig)
				if err := c.sendReplayLocked(replayMsg, rec.Seqnum); err != nil {
					return err
				}
			}

			rctx.Advance(rec.Seqnum)
			next = rec.Seqnum + 1
		}
	}

	if rctx.End == 0 || rctx.End > highWater {
		return c.sendGapFillLocked(next, highWater+1)
	}
	return nil
}

// sendGapFillLocked emits a SequenceReset-GapFill covering the slot
// [seqnum, newSeqNo), a no-op if the range is empty.
func (c *Core) sendGapFillLocked(seqnum, newSeqNo uint64) error {
	if newSeqNo <= seqnum {
		return nil
	}
	msg, err := c.metadata.Create(fixwire.MsgTypeSequenceReset)
	if err != nil {
		return newError(KindInvalidMetadata, err)
	}
	msg.SetField(tagGapFillFlag, "Y")
	msg.SetField(tagNewSeqNo, uitoa(newSeqNo))
	return c.sendReplayLocked(msg, seqnum)
}
