// Package cursor implements an external store for reader cursor
// positions, backing scenario S5's "stateful consumers that persist
// their cursor out-of-band" (spec.md §4.5's move_to doc). Grounded on
// marmos91-dittofs/pkg/wal/persister.go's small-interface style,
// repurposed from persisting log entries to persisting a uint32
// position per (channel id, consumer name) pair.
package cursor

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Store persists reader positions keyed by channel id and consumer
// name, so a consumer can restart and resume via Reader.MoveTo.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) a badger-backed cursor store rooted
// at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cursor: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func key(channelID uint64, consumer string) []byte {
	k := make([]byte, 8+len(consumer))
	binary.LittleEndian.PutUint64(k[:8], channelID)
	copy(k[8:], consumer)
	return k
}

// Save records position as consumer's cursor on channelID.
func (s *Store) Save(channelID uint64, consumer string, position uint32) error {
	return s.db.Update(func(txn *badger.Txn) error {
		v := make([]byte, 4)
		binary.LittleEndian.PutUint32(v, position)
		return txn.Set(key(channelID, consumer), v)
	})
}

// Load returns consumer's last saved position on channelID, and
// false if none was ever saved.
func (s *Store) Load(channelID uint64, consumer string) (uint32, bool, error) {
	var pos uint32
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(channelID, consumer))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			pos = binary.LittleEndian.Uint32(val)
			found = true
			return nil
		})
	})
	if err != nil {
		return 0, false, fmt.Errorf("cursor: load: %w", err)
	}
	return pos, found, nil
}
