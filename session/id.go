// Package session holds the FIX session's data model: the stable identity
// triple (SessionID), the state machine's states, the per-direction
// sequence cursor, control flags, login parameters, and the resend
// bookkeeping structure. None of these types talk to a network or a
// persister; engine.SessionCore owns that wiring.
package session

import (
	"fmt"
	"strings"

	"github.com/pingcap/errors"
)

// ErrMalformedSessionID is returned by ParseID when the input does not match
// the canonical "BeginString:SenderCompID->TargetCompID" grammar.
var ErrMalformedSessionID = errors.New("malformed session id")

// ID is the stable triple (BeginString, SenderCompID, TargetCompID) that
// routes a session. It is immutable after construction and compares
// structurally.
type ID struct {
	BeginString  string
	SenderCompID string
	TargetCompID string
}

// NewID constructs an ID and validates none of its components are empty.
func NewID(beginString, senderCompID, targetCompID string) (ID, error) {
	id := ID{BeginString: beginString, SenderCompID: senderCompID, TargetCompID: targetCompID}
	if beginString == "" || senderCompID == "" || targetCompID == "" {
		return ID{}, errors.Errorf("session id component empty: %+v", id)
	}
	return id, nil
}

// String returns the canonical form "BeginString:SenderCompID->TargetCompID".
func (id ID) String() string {
	return fmt.Sprintf("%s:%s->%s", id.BeginString, id.SenderCompID, id.TargetCompID)
}

// Reversed returns the ID with SenderCompID and TargetCompID swapped, i.e.
// the ID the counterparty sees this session as.
func (id ID) Reversed() ID {
	return ID{BeginString: id.BeginString, SenderCompID: id.TargetCompID, TargetCompID: id.SenderCompID}
}

// Equal reports structural equality.
func (id ID) Equal(other ID) bool {
	return id.BeginString == other.BeginString &&
		id.SenderCompID == other.SenderCompID &&
		id.TargetCompID == other.TargetCompID
}

// ParseID parses the canonical string form produced by String. The grammar
// is two fixed delimiters, ":" then "->", so we split on the first ":" and
// then on the first "->" after it rather than a regexp: CompIDs are free
// text and may themselves contain "-" or ":".
func ParseID(s string) (ID, error) {
	beginString, rest, ok := strings.Cut(s, ":")
	if !ok {
		return ID{}, errors.Annotatef(ErrMalformedSessionID, "input=%q", s)
	}
	senderCompID, targetCompID, ok := strings.Cut(rest, "->")
	if !ok {
		return ID{}, errors.Annotatef(ErrMalformedSessionID, "input=%q", s)
	}
	return NewID(beginString, senderCompID, targetCompID)
}
