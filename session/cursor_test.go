package session

import "testing"

func TestCursorAdvanceSend(t *testing.T) {
	c := NewCursor(0, 0)
	s1 := c.AdvanceSend(false)
	s2 := c.AdvanceSend(false)
	if s1 != 1 || s2 != 2 {
		t.Fatalf("got s1=%d s2=%d, want 1,2", s1, s2)
	}
	if c.NextSend() != 3 {
		t.Fatalf("NextSend() = %d, want 3", c.NextSend())
	}
}

func TestCursorAdvanceSendNoIncrement(t *testing.T) {
	c := NewCursor(0, 0)
	s1 := c.AdvanceSend(true)
	if s1 != 1 || c.NextSend() != 1 {
		t.Fatalf("no_increment advanced the cursor: seq=%d next=%d", s1, c.NextSend())
	}
}

func TestCursorAdvanceReceiveIfExpected(t *testing.T) {
	c := NewCursor(0, 0)
	if c.AdvanceReceiveIfExpected(2) {
		t.Fatal("advanced on unexpected (too-high) seqnum")
	}
	if !c.AdvanceReceiveIfExpected(1) {
		t.Fatal("did not advance on expected seqnum")
	}
	if c.NextReceive() != 2 {
		t.Fatalf("NextReceive() = %d, want 2", c.NextReceive())
	}
	if c.AdvanceReceiveIfExpected(1) {
		t.Fatal("advanced twice on the same (now stale) seqnum")
	}
}

func TestCursorResetBoth(t *testing.T) {
	c := NewCursor(42, 42)
	c.ResetBoth(1, 1)
	if c.NextSend() != 1 || c.NextReceive() != 1 {
		t.Fatalf("ResetBoth did not reset: send=%d recv=%d", c.NextSend(), c.NextReceive())
	}
}
