package controlsvc

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/quantrail/fixcore/controlpb"
	"github.com/quantrail/fixcore/engine"
	"github.com/quantrail/fixcore/fixwire/tagvalue"
	"github.com/quantrail/fixcore/session"
)

func newRegisteredCore(t *testing.T, s *Server, id session.ID) *engine.Core {
	t.Helper()
	codec := &tagvalue.Codec{BeginString: id.BeginString}
	md := &tagvalue.Metadata{BeginString: id.BeginString}
	core := engine.New(id, codec, md)
	s.Register(core)
	return core
}

func TestStatusReportsCursorAndFlags(t *testing.T) {
	s := New()
	id := session.ID{BeginString: "FIX.4.4", SenderCompID: "CLIENT", TargetCompID: "BROKER"}
	core := newRegisteredCore(t, s, id)
	core.Session().Control.Set(session.FlagDebug)

	resp, err := s.Status(context.Background(), &controlpb.StatusRequest{
		BeginString:  id.BeginString,
		SenderCompId: id.SenderCompID,
		TargetCompId: id.TargetCompID,
	})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if resp.GetState() != core.Session().State().String() {
		t.Fatalf("state = %q, want %q", resp.GetState(), core.Session().State().String())
	}
	if !resp.GetDebugFlag() {
		t.Fatal("expected debug flag set")
	}
	if resp.GetShutdownFlag() {
		t.Fatal("expected shutdown flag clear")
	}
}

func TestStatusUnknownSessionNotFound(t *testing.T) {
	s := New()
	_, err := s.Status(context.Background(), &controlpb.StatusRequest{
		BeginString:  "FIX.4.4",
		SenderCompId: "A",
		TargetCompId: "B",
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("err code = %v, want NotFound", status.Code(err))
	}
}

func TestSetControlFlagsTogglesShutdown(t *testing.T) {
	s := New()
	id := session.ID{BeginString: "FIX.4.4", SenderCompID: "CLIENT", TargetCompID: "BROKER"}
	core := newRegisteredCore(t, s, id)

	req := &controlpb.SetControlFlagsRequest{
		BeginString:  id.BeginString,
		SenderCompId: id.SenderCompID,
		TargetCompId: id.TargetCompID,
		Flag:         "shutdown",
		Set:          true,
	}
	resp, err := s.SetControlFlags(context.Background(), req)
	if err != nil {
		t.Fatalf("SetControlFlags: %v", err)
	}
	if !resp.GetShutdownFlag() {
		t.Fatal("expected shutdown flag set in response")
	}
	if !core.Session().Control.Has(session.FlagShutdown) {
		t.Fatal("expected shutdown flag set on the underlying session")
	}

	req.Set = false
	resp, err = s.SetControlFlags(context.Background(), req)
	if err != nil {
		t.Fatalf("SetControlFlags(clear): %v", err)
	}
	if resp.GetShutdownFlag() {
		t.Fatal("expected shutdown flag clear in response")
	}
}

func TestSetControlFlagsUnknownFlag(t *testing.T) {
	s := New()
	id := session.ID{BeginString: "FIX.4.4", SenderCompID: "CLIENT", TargetCompID: "BROKER"}
	newRegisteredCore(t, s, id)

	_, err := s.SetControlFlags(context.Background(), &controlpb.SetControlFlagsRequest{
		BeginString:  id.BeginString,
		SenderCompId: id.SenderCompID,
		TargetCompId: id.TargetCompID,
		Flag:         "not-a-flag",
		Set:          true,
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("err code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestUnregisterRemovesSession(t *testing.T) {
	s := New()
	id := session.ID{BeginString: "FIX.4.4", SenderCompID: "CLIENT", TargetCompID: "BROKER"}
	newRegisteredCore(t, s, id)
	s.Unregister(id)

	_, err := s.Status(context.Background(), &controlpb.StatusRequest{
		BeginString:  id.BeginString,
		SenderCompId: id.SenderCompID,
		TargetCompId: id.TargetCompID,
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("err code = %v, want NotFound after Unregister", status.Code(err))
	}
}
