// Package store persists record storage handles in a local pebble database
// and snapshots them to checksummed files. It plays the external-runtime
// storage role: the engine core only ever sees the byte buffers.
package store

import (
	"encoding/binary"
	"errors"

	"github.com/cockroachdb/pebble"

	"github.com/openvenue/venue-core/record"
)

// ErrNotFound is returned when no record exists under a key.
var ErrNotFound = errors.New("store: record not found")

var keyPrefix = []byte("rec/")

// Store is a durable record store keyed by 32-byte record id.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) a store at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func storeKey(id record.ID) []byte {
	k := make([]byte, 0, len(keyPrefix)+len(id))
	k = append(k, keyPrefix...)
	return append(k, id[:]...)
}

// value layout: [owner:32][balance:8][data:...]
func encodeValue(acc *record.Account) []byte {
	buf := make([]byte, 32+8+len(acc.Data))
	copy(buf[0:32], acc.Owner[:])
	binary.LittleEndian.PutUint64(buf[32:40], acc.Balance)
	copy(buf[40:], acc.Data)
	return buf
}

func decodeValue(key record.ID, val []byte) (*record.Account, error) {
	if len(val) < 40 {
		return nil, errors.New("store: corrupt record value")
	}
	acc := &record.Account{
		Key:     key,
		Owner:   record.IDFromBytes(val[0:32]),
		Balance: binary.LittleEndian.Uint64(val[32:40]),
		Data:    make([]byte, len(val)-40),
	}
	copy(acc.Data, val[40:])
	return acc, nil
}

// Put durably writes one record.
func (s *Store) Put(acc *record.Account) error {
	return s.db.Set(storeKey(acc.Key), encodeValue(acc), pebble.Sync)
}

// PutAll writes a batch of records in one atomic, synced commit.
func (s *Store) PutAll(accounts ...*record.Account) error {
	batch := s.db.NewBatch()
	defer batch.Close()

	for _, acc := range accounts {
		if err := batch.Set(storeKey(acc.Key), encodeValue(acc), nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

// Get loads the record stored under key.
func (s *Store) Get(key record.ID) (*record.Account, error) {
	val, closer, err := s.db.Get(storeKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	return decodeValue(key, val)
}

// Delete removes the record stored under key.
func (s *Store) Delete(key record.ID) error {
	return s.db.Delete(storeKey(key), pebble.Sync)
}

// Scan iterates every stored record in key order.
func (s *Store) Scan(fn func(*record.Account) error) error {
	upper := append(append([]byte{}, keyPrefix...), 0xFF)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: upper,
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := record.IDFromBytes(iter.Key()[len(keyPrefix):])
		acc, err := decodeValue(key, iter.Value())
		if err != nil {
			return err
		}
		if err := fn(acc); err != nil {
			return err
		}
	}
	return iter.Error()
}
