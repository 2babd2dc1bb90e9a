// Package fixwire declares the Codec and Metadata collaborators (spec
// section "EXTERNAL INTERFACES" 6.1-6.2): the wire encoding of FIX
// tag=value frames and the dictionary of which fields belong to which
// message type. engine.SessionCore only depends on these interfaces; the
// tagvalue subpackage supplies a reference implementation.
package fixwire

import "time"

// MsgType identifies a FIX message type by its tag-35 value.
type MsgType string

const (
	MsgTypeLogon         MsgType = "A"
	MsgTypeLogout        MsgType = "5"
	MsgTypeHeartbeat     MsgType = "0"
	MsgTypeTestRequest   MsgType = "1"
	MsgTypeResendRequest MsgType = "2"
	MsgTypeSequenceReset MsgType = "4"
	MsgTypeReject        MsgType = "3"
)

// IsAdmin reports whether t is one of the seven administrative message
// types the session core dispatches internally rather than to the
// ApplicationHook.
func (t MsgType) IsAdmin() bool {
	switch t {
	case MsgTypeLogon, MsgTypeLogout, MsgTypeHeartbeat, MsgTypeTestRequest,
		MsgTypeResendRequest, MsgTypeSequenceReset, MsgTypeReject:
		return true
	default:
		return false
	}
}

// Message is a decoded FIX message with typed access to the header fields
// the session core inspects plus untyped access to the body by tag.
type Message interface {
	MsgType() MsgType
	SeqNum() uint64
	SenderCompID() string
	TargetCompID() string
	PossDupFlag() bool
	SendingTime() time.Time
	OrigSendingTime() (time.Time, bool)

	// Field returns the raw string value of tag, and whether it was present.
	Field(tag int) (string, bool)
	// SetField sets tag to value, used by handlers constructing a reply.
	SetField(tag int, value string)
	// SetSeqNum overrides MsgSeqNum, used by the egress pipeline.
	SetSeqNum(seq uint64)
	// SetPossDupFlag marks the message as a replay.
	SetPossDupFlag(v bool)
	// SetOrigSendingTime preserves the original SendingTime on a replay.
	SetOrigSendingTime(t time.Time)
	// SetSendingTime stamps tag-52.
	SetSendingTime(t time.Time)
	// SetSenderTarget stamps tags 49/56.
	SetSenderTarget(sender, target string)
	// Raw returns the last decoded/encoded frame bytes, if known.
	Raw() []byte
}

// DecodeError is returned by Codec.Decode. Recoverable is true when the
// offending seqnum could be extracted despite the decode failure, allowing
// the session to emit a Reject instead of tearing down.
type DecodeError struct {
	Err         error
	Recoverable bool
	Seqnum      uint64
}

func (e *DecodeError) Error() string { return e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Codec decodes raw frames into Messages and encodes Messages into frames,
// computing BodyLength and CheckSum.
type Codec interface {
	Decode(raw []byte) (Message, *DecodeError)
	Encode(msg Message) ([]byte, error)
}

// ErrUnknownType is returned by Metadata.Create for an unrecognized MsgType.
type ErrUnknownType struct{ MsgType MsgType }

func (e *ErrUnknownType) Error() string { return "fixwire: unknown message type " + string(e.MsgType) }

// Metadata manufactures empty Messages of a given type so the session core
// can populate and send Logon, Logout, Heartbeat, TestRequest,
// ResendRequest, SequenceReset, and Reject without depending on a concrete
// Message implementation.
type Metadata interface {
	Create(t MsgType) (Message, error)
}
