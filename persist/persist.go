// Package persist declares the Persister collaborator (spec.md section
// 6.4/6.6): durable storage for (seqnum -> raw frame) per direction, and
// (direction -> next sequence) cursors. Durability means a Put must be
// observable after a process restart; the memory subpackage intentionally
// violates that for tests, the badgerstore subpackage honors it.
package persist

import (
	"context"

	"github.com/quantrail/fixcore/session"
)

// Record pairs a sequence number with its raw encoded frame.
type Record struct {
	Seqnum uint64
	Frame  []byte
}

// Persister is the durable store backing one session's sent-message log
// and sequence cursors.
type Persister interface {
	// Put durably stores frame under (direction, seqnum). Observable by a
	// subsequent GetRange call even across a process restart.
	Put(ctx context.Context, sessionID string, dir session.Direction, seqnum uint64, frame []byte) error

	// GetRange returns records with seqnum in [from, to] ascending, for the
	// given direction. to == 0 means "through the highest stored seqnum".
	GetRange(ctx context.Context, sessionID string, dir session.Direction, from, to uint64) ([]Record, error)

	// PutCursor durably stores the next sequence number for dir.
	PutCursor(ctx context.Context, sessionID string, dir session.Direction, nextSeq uint64) error

	// GetCursor returns the stored next sequence number for dir, or
	// (1, false) if none has ever been stored.
	GetCursor(ctx context.Context, sessionID string, dir session.Direction) (uint64, bool, error)

	// Close releases any resources held by the store.
	Close() error
}

// ErrPersist wraps any underlying storage error so engine.Error can tag it
// with Kind PersistError without caring which backend produced it.
type ErrPersist struct {
	Op  string
	Err error
}

func (e *ErrPersist) Error() string { return "persist: " + e.Op + ": " + e.Err.Error() }
func (e *ErrPersist) Unwrap() error { return e.Err }
