// Package memory is an in-process Persister for tests and for
// cmd/fixsession run without --persist-dir. It does not survive a
// process restart, which is a correctness violation of the Persister
// contract for production use but not for short-lived test sessions.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quantrail/fixcore/persist"
	"github.com/quantrail/fixcore/session"
)

type key struct {
	sessionID string
	dir       session.Direction
}

// Store is a map-backed Persister.
type Store struct {
	mu      sync.Mutex
	frames  map[key]map[uint64][]byte
	cursors map[key]uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		frames:  map[key]map[uint64][]byte{},
		cursors: map[key]uint64{},
	}
}

func (s *Store) Put(_ context.Context, sessionID string, dir session.Direction, seqnum uint64, frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{sessionID, dir}
	if s.frames[k] == nil {
		s.frames[k] = map[uint64][]byte{}
	}
	cp := append([]byte(nil), frame...)
	s.frames[k][seqnum] = cp
	return nil
}

func (s *Store) GetRange(_ context.Context, sessionID string, dir session.Direction, from, to uint64) ([]persist.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{sessionID, dir}
	m := s.frames[k]
	if m == nil {
		return nil, nil
	}

	var seqnums []uint64
	for sn := range m {
		if sn < from {
			continue
		}
		if to != 0 && sn > to {
			continue
		}
		seqnums = append(seqnums, sn)
	}
	sort.Slice(seqnums, func(i, j int) bool { return seqnums[i] < seqnums[j] })

	records := make([]persist.Record, 0, len(seqnums))
	for _, sn := range seqnums {
		records = append(records, persist.Record{Seqnum: sn, Frame: m[sn]})
	}
	return records, nil
}

func (s *Store) PutCursor(_ context.Context, sessionID string, dir session.Direction, nextSeq uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[key{sessionID, dir}] = nextSeq
	return nil
}

func (s *Store) GetCursor(_ context.Context, sessionID string, dir session.Direction) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cursors[key{sessionID, dir}]
	if !ok {
		return 1, false, nil
	}
	return v, true, nil
}

func (s *Store) Close() error { return nil }

var _ persist.Persister = (*Store)(nil)
