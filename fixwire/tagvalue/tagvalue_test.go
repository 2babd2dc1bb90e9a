package tagvalue

import (
	"testing"
	"time"

	"github.com/quantrail/fixcore/fixwire"
)

func buildHeartbeat(t *testing.T) fixwire.Message {
	t.Helper()
	md := &Metadata{BeginString: "FIX.4.4"}
	msg, err := md.Create(fixwire.MsgTypeHeartbeat)
	if err != nil {
		t.Fatal(err)
	}
	msg.SetSeqNum(1)
	msg.SetSenderTarget("CLIENT", "BROKER")
	msg.SetSendingTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return msg
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := &Codec{BeginString: "FIX.4.4"}
	msg := buildHeartbeat(t)

	frame, err := codec.Encode(msg)
	if err != nil {
		t.Fatal(err)
	}

	decoded, derr := codec.Decode(frame)
	if derr != nil {
		t.Fatalf("decode failed: %v", derr)
	}
	if decoded.MsgType() != fixwire.MsgTypeHeartbeat {
		t.Fatalf("MsgType() = %q, want %q", decoded.MsgType(), fixwire.MsgTypeHeartbeat)
	}
	if decoded.SeqNum() != 1 {
		t.Fatalf("SeqNum() = %d, want 1", decoded.SeqNum())
	}
	if decoded.SenderCompID() != "CLIENT" || decoded.TargetCompID() != "BROKER" {
		t.Fatalf("comp ids wrong: sender=%q target=%q", decoded.SenderCompID(), decoded.TargetCompID())
	}
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	codec := &Codec{BeginString: "FIX.4.4"}
	msg := buildHeartbeat(t)
	frame, err := codec.Encode(msg)
	if err != nil {
		t.Fatal(err)
	}

	tampered := append([]byte{}, frame...)
	last := len(tampered) - 2 // final CheckSum digit, just before the trailing SOH
	tampered[last] = '0' + (tampered[last]-'0'+1)%10

	if _, derr := codec.Decode(tampered); derr == nil {
		t.Fatal("expected checksum mismatch error")
	}
}

func TestMetadataRejectsNonAdminType(t *testing.T) {
	md := &Metadata{BeginString: "FIX.4.4"}
	if _, err := md.Create(fixwire.MsgType("D")); err == nil {
		t.Fatal("expected error creating non-admin message type")
	}
}
