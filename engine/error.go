package engine

import "github.com/pingcap/errors"

// Kind classifies a failure the way spec.md section 7 names error kinds, so
// the ingress pipeline can switch on it without string-matching.
type Kind int

const (
	KindCompIdMismatch Kind = iota
	KindSequenceTooLow
	KindSequenceGap
	KindDecodeError
	KindInvalidMetadata
	KindPersistError
	KindConnectionError
	KindLogonTimeout
	KindAuthFailure
)

func (k Kind) String() string {
	switch k {
	case KindCompIdMismatch:
		return "comp_id_mismatch"
	case KindSequenceTooLow:
		return "sequence_too_low"
	case KindSequenceGap:
		return "sequence_gap"
	case KindDecodeError:
		return "decode_error"
	case KindInvalidMetadata:
		return "invalid_metadata"
	case KindPersistError:
		return "persist_error"
	case KindConnectionError:
		return "connection_error"
	case KindLogonTimeout:
		return "logon_timeout"
	case KindAuthFailure:
		return "auth_failure"
	default:
		return "unknown"
	}
}

// Error wraps a session failure with its Kind and a traced cause, so a
// fatal error unwound through Stop carries a stack trace for the
// structured logger without the caller having to re-annotate it.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return "engine: " + e.Kind.String() + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: errors.Trace(err)}
}

var (
	errAuthRejected          = errors.New("authenticate rejected logon")
	errDeadPeer              = errors.New("dead peer: no response to test request")
	errLogonRetriesExhausted = errors.New("logon retries exhausted")
)
