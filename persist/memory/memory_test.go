package memory

import (
	"context"
	"testing"

	"github.com/quantrail/fixcore/session"
)

func TestStorePutAndGetRange(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := uint64(1); i <= 5; i++ {
		if err := s.Put(ctx, "SID", session.Send, i, []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := s.GetRange(ctx, "SID", session.Send, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	for i, r := range records {
		want := uint64(i + 2)
		if r.Seqnum != want {
			t.Errorf("records[%d].Seqnum = %d, want %d", i, r.Seqnum, want)
		}
	}
}

func TestStoreGetRangeUnboundedTo(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Put(ctx, "SID", session.Send, 1, []byte("a"))
	s.Put(ctx, "SID", session.Send, 2, []byte("b"))

	records, err := s.GetRange(ctx, "SID", session.Send, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
}

func TestCursorRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, _ := s.GetCursor(ctx, "SID", session.Receive); ok {
		t.Fatal("expected no cursor stored yet")
	}
	if err := s.PutCursor(ctx, "SID", session.Receive, 7); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.GetCursor(ctx, "SID", session.Receive)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != 7 {
		t.Fatalf("GetCursor() = (%d, %v), want (7, true)", v, ok)
	}
}
