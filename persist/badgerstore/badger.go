// Package badgerstore backs persist.Persister with an embedded Badger KV
// store (github.com/dgraph-io/badger/v4), the storage engine
// marmos91/dittofs uses for its local metadata store in this retrieval
// pack. Keys are laid out so a prefix scan yields an ascending sequence
// range directly from Badger's own key ordering, without an in-memory sort.
package badgerstore

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/quantrail/fixcore/persist"
	"github.com/quantrail/fixcore/session"
)

// Store is a Badger-backed Persister. One Store may hold records for many
// sessions; the session id is folded into the key.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) a Badger database rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, &persist.ErrPersist{Op: "open", Err: err}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return &persist.ErrPersist{Op: "close", Err: err}
	}
	return nil
}

const seqnumWidth = 20 // enough decimal digits for any uint64

func msgKey(sessionID string, dir session.Direction, seqnum uint64) []byte {
	return []byte(fmt.Sprintf("msg/%s/%s/%0*d", sessionID, dir, seqnumWidth, seqnum))
}

func msgPrefix(sessionID string, dir session.Direction) []byte {
	return []byte(fmt.Sprintf("msg/%s/%s/", sessionID, dir))
}

func cursorKey(sessionID string, dir session.Direction) []byte {
	return []byte(fmt.Sprintf("cursor/%s/%s", sessionID, dir))
}

func (s *Store) Put(_ context.Context, sessionID string, dir session.Direction, seqnum uint64, frame []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(msgKey(sessionID, dir, seqnum), frame)
	})
	if err != nil {
		return &persist.ErrPersist{Op: "put", Err: err}
	}
	return nil
}

func (s *Store) GetRange(_ context.Context, sessionID string, dir session.Direction, from, to uint64) ([]persist.Record, error) {
	var records []persist.Record
	prefix := msgPrefix(sessionID, dir)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		start := msgKey(sessionID, dir, from)
		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			seqnum, err := seqnumFromKey(item.Key(), prefix)
			if err != nil {
				return err
			}
			if to != 0 && seqnum > to {
				break
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			records = append(records, persist.Record{Seqnum: seqnum, Frame: val})
		}
		return nil
	})
	if err != nil {
		return nil, &persist.ErrPersist{Op: "get_range", Err: err}
	}
	return records, nil
}

func seqnumFromKey(key, prefix []byte) (uint64, error) {
	suffix := strings.TrimPrefix(string(key), string(prefix))
	return strconv.ParseUint(suffix, 10, 64)
}

func (s *Store) PutCursor(_ context.Context, sessionID string, dir session.Direction, nextSeq uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, nextSeq)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cursorKey(sessionID, dir), buf)
	})
	if err != nil {
		return &persist.ErrPersist{Op: "put_cursor", Err: err}
	}
	return nil
}

func (s *Store) GetCursor(_ context.Context, sessionID string, dir session.Direction) (uint64, bool, error) {
	var next uint64
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cursorKey(sessionID, dir))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		next = binary.BigEndian.Uint64(val)
		found = true
		return nil
	})
	if err != nil {
		return 0, false, &persist.ErrPersist{Op: "get_cursor", Err: err}
	}
	if !found {
		return 1, false, nil
	}
	return next, true, nil
}

var _ persist.Persister = (*Store)(nil)
