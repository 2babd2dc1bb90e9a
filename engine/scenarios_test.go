package engine

import (
	"context"
	"testing"
	"time"

	"github.com/quantrail/fixcore/apphook"
	"github.com/quantrail/fixcore/fixwire"
	"github.com/quantrail/fixcore/session"
)

func testID() session.ID {
	return session.ID{BeginString: "FIX.4.4", SenderCompID: "CLIENT", TargetCompID: "BROKER"}
}

// establishContinuous drives the initiator side of a clean logon (S1) and
// returns once the session is continuous with next_send=2, next_recv=2.
func establishContinuous(t *testing.T, c *Core, conn *fakeConn, clock func() time.Time, id session.ID) {
	t.Helper()
	startInitiatorLogon(c)
	if conn.writeCount() != 1 {
		t.Fatalf("expected exactly 1 outbound frame after Start, got %d", conn.writeCount())
	}
	logonOut := decodeWrite(t, c, conn, 0)
	if logonOut.MsgType() != fixwire.MsgTypeLogon || logonOut.SeqNum() != 1 {
		t.Fatalf("expected outbound Logon seq=1, got type=%s seq=%d", logonOut.MsgType(), logonOut.SeqNum())
	}

	reply := buildFrame(id.BeginString, fixwire.MsgTypeLogon, 1, id.TargetCompID, id.SenderCompID, clock(), map[int]string{tagHeartBtInt: "30"})
	if err := c.Process(context.Background(), reply); err != nil {
		t.Fatalf("Process(logon reply): %v", err)
	}
	if c.Session().State() != session.Continuous {
		t.Fatalf("state = %s, want continuous", c.Session().State())
	}
	if got := c.Session().Cursor.NextReceive(); got != 2 {
		t.Fatalf("next_receive = %d, want 2", got)
	}
}

// TestS1CleanLogonInitiator exercises spec.md scenario S1.
func TestS1CleanLogonInitiator(t *testing.T) {
	id := testID()
	clock := newManualClock(time.Now())
	c, conn := newTestCore(t, id, false, clock.Now)
	establishContinuous(t, c, conn, clock.Now, id)
}

// TestS2GapAndRecover exercises spec.md scenario S2.
func TestS2GapAndRecover(t *testing.T) {
	id := testID()
	clock := newManualClock(time.Now())

	var delivered []uint64
	hook := apphook.Hook{OnApplication: func(seq uint64, _ fixwire.Message) bool {
		delivered = append(delivered, seq)
		return true
	}}
	c, conn := newTestCore(t, id, false, clock.Now, WithApplicationHook(hook))
	establishContinuous(t, c, conn, clock.Now, id)

	gapTrigger := buildFrame(id.BeginString, "D", 4, id.TargetCompID, id.SenderCompID, clock.Now(), nil)
	if err := c.Process(context.Background(), gapTrigger); err != nil {
		t.Fatalf("Process(seq4): %v", err)
	}
	if c.Session().State() != session.ResendRequestSent {
		t.Fatalf("state = %s, want resend_request_sent", c.Session().State())
	}
	if got := c.Session().Cursor.NextReceive(); got != 2 {
		t.Fatalf("next_receive = %d, want 2 (unchanged)", got)
	}
	if conn.writeCount() != 2 {
		t.Fatalf("expected ResendRequest as 2nd outbound frame, got %d frames", conn.writeCount())
	}
	rr := decodeWrite(t, c, conn, 1)
	if rr.MsgType() != fixwire.MsgTypeResendRequest {
		t.Fatalf("2nd frame = %s, want ResendRequest", rr.MsgType())
	}
	if b, _ := rr.Field(tagBeginSeqNo); b != "2" {
		t.Fatalf("BeginSeqNo = %s, want 2", b)
	}
	if e, _ := rr.Field(tagEndSeqNo); e != "0" {
		t.Fatalf("EndSeqNo = %s, want 0", e)
	}

	for _, seq := range []uint64{2, 3} {
		replay := buildFrame(id.BeginString, "D", seq, id.TargetCompID, id.SenderCompID, clock.Now(), map[int]string{43: "Y"})
		if err := c.Process(context.Background(), replay); err != nil {
			t.Fatalf("Process(replay seq%d): %v", seq, err)
		}
	}

	gapFill := buildFrame(id.BeginString, fixwire.MsgTypeSequenceReset, 4, id.TargetCompID, id.SenderCompID, clock.Now(),
		map[int]string{tagGapFillFlag: "Y", tagNewSeqNo: "5"})
	if err := c.Process(context.Background(), gapFill); err != nil {
		t.Fatalf("Process(gapfill): %v", err)
	}

	if got := c.Session().Cursor.NextReceive(); got != 5 {
		t.Fatalf("next_receive = %d, want 5", got)
	}
	if c.Session().State() != session.Continuous {
		t.Fatalf("state = %s, want continuous", c.Session().State())
	}
	if len(delivered) != 3 || delivered[0] != 2 || delivered[1] != 3 || delivered[2] != 4 {
		t.Fatalf("delivered = %v, want [2 3 4]", delivered)
	}
}

// TestS3PossDupReplayAlreadyApplied exercises spec.md scenario S3.
func TestS3PossDupReplayAlreadyApplied(t *testing.T) {
	id := testID()
	clock := newManualClock(time.Now())

	var delivered []uint64
	hook := apphook.Hook{OnApplication: func(seq uint64, _ fixwire.Message) bool {
		delivered = append(delivered, seq)
		return true
	}}
	c, conn := newTestCore(t, id, false, clock.Now, WithApplicationHook(hook))
	establishContinuous(t, c, conn, clock.Now, id)
	c.Session().Cursor.ResetReceive(10)

	before := conn.writeCount()
	possDup := buildFrame(id.BeginString, "D", 7, id.TargetCompID, id.SenderCompID, clock.Now(), map[int]string{43: "Y"})
	if err := c.Process(context.Background(), possDup); err != nil {
		t.Fatalf("Process(possdup): %v", err)
	}

	if got := c.Session().Cursor.NextReceive(); got != 10 {
		t.Fatalf("next_receive = %d, want 10 (unchanged)", got)
	}
	if len(delivered) != 1 || delivered[0] != 7 {
		t.Fatalf("delivered = %v, want [7]", delivered)
	}
	if conn.writeCount() != before {
		t.Fatalf("expected no additional outbound frames (no Reject), got %d new", conn.writeCount()-before)
	}
}

// TestS4DeadPeer exercises spec.md scenario S4 by driving heartbeatTick
// directly against a manual clock instead of sleeping on a real timer.
func TestS4DeadPeer(t *testing.T) {
	id := testID()
	start := time.Now()
	clock := newManualClock(start)
	c, conn := newTestCore(t, id, false, clock.Now, WithLoginParameters(testLoginParams(10)))
	establishContinuous(t, c, conn, clock.Now, id)

	clock.Advance(12 * time.Second)
	c.heartbeatTick()
	if c.Session().State() != session.TestRequestSent {
		t.Fatalf("state = %s, want test_request_sent after 12s silence", c.Session().State())
	}

	clock.Advance(10 * time.Second)
	c.heartbeatTick()
	if c.Session().State() != session.SessionTerminated {
		t.Fatalf("state = %s, want session_terminated after dead-peer timeout", c.Session().State())
	}
}

// TestS5ResetSeqNumFlagOnLogon exercises spec.md scenario S5.
func TestS5ResetSeqNumFlagOnLogon(t *testing.T) {
	id := testID()
	clock := newManualClock(time.Now())
	c, conn := newTestCore(t, id, true, clock.Now)

	logon := buildFrame(id.BeginString, fixwire.MsgTypeLogon, 42, id.TargetCompID, id.SenderCompID, clock.Now(),
		map[int]string{tagResetSeqNumFlag: "Y", tagHeartBtInt: "30"})
	if err := c.Process(context.Background(), logon); err != nil {
		t.Fatalf("Process(logon reset): %v", err)
	}

	if conn.writeCount() != 1 {
		t.Fatalf("expected exactly 1 echoed Logon, got %d frames", conn.writeCount())
	}
	echo := decodeWrite(t, c, conn, 0)
	if echo.MsgType() != fixwire.MsgTypeLogon {
		t.Fatalf("echo type = %s, want Logon", echo.MsgType())
	}
	if echo.SeqNum() != 1 {
		t.Fatalf("echo seq = %d, want 1", echo.SeqNum())
	}
	if v, _ := echo.Field(tagResetSeqNumFlag); v != "Y" {
		t.Fatalf("echo ResetSeqNumFlag = %q, want Y", v)
	}
	if c.Session().State() != session.Continuous {
		t.Fatalf("state = %s, want continuous", c.Session().State())
	}
	if got := c.Session().Cursor.NextReceive(); got != 43 {
		t.Fatalf("next_receive = %d, want 43", got)
	}
	if got := c.Session().Cursor.NextSend(); got != 2 {
		t.Fatalf("next_send = %d, want 2", got)
	}
}

// TestS6CompIDMismatch exercises spec.md scenario S6.
func TestS6CompIDMismatch(t *testing.T) {
	id := testID()
	clock := newManualClock(time.Now())
	c, conn := newTestCore(t, id, false, clock.Now)
	establishContinuous(t, c, conn, clock.Now, id)

	bad := buildFrame(id.BeginString, "D", 2, "OTHER", id.SenderCompID, clock.Now(), nil)
	if err := c.Process(context.Background(), bad); err == nil {
		t.Fatal("expected a CompIdMismatch error")
	}

	if c.Session().State() != session.LogoffSent {
		t.Fatalf("state = %s, want logoff_sent", c.Session().State())
	}
	last := decodeWrite(t, c, conn, conn.writeCount()-1)
	if last.MsgType() != fixwire.MsgTypeLogout {
		t.Fatalf("last outbound = %s, want Logout", last.MsgType())
	}
}
