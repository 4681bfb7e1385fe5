// Package records persists finished call sessions for offline review.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	session "github.com/reliefdesk/hotline-core/core"
)

// ErrNotFound is returned when no record exists for the requested call id.
var ErrNotFound = errors.New("records: call record not found")

var recordKeyPrefix = []byte("records/call/")

// Options configures the BadgerDB-backed record store.
type Options struct {
	// Dir is the directory for BadgerDB data files. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs BadgerDB in memory-only mode. Useful for testing with
	// a real badger engine.
	InMemory bool
}

// Store keeps one JSON document per finished call, keyed by call id.
type Store struct {
	db *badger.DB
}

var _ session.RecordWriter = (*Store)(nil)

// NewStore opens (or creates) the record database.
func NewStore(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("records: Options.Dir is required for on-disk mode")
	}

	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(nil)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open record database: %w", err)
	}
	return &Store{db: db}, nil
}

func recordKey(callID string) []byte {
	return append(append([]byte{}, recordKeyPrefix...), callID...)
}

// Put stores or overwrites the record for the session's call id.
func (s *Store) Put(_ context.Context, record session.CallSession) error {
	if record.CallID == "" {
		return errors.New("records: refusing to store a record without a call id")
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode call record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(record.CallID), encoded)
	})
	if err != nil {
		return fmt.Errorf("failed to store call record %s: %w", record.CallID, err)
	}
	return nil
}

// Get retrieves a single call record by id.
func (s *Store) Get(_ context.Context, callID string) (session.CallSession, error) {
	var record session.CallSession
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(callID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if errors.Is(err, ErrNotFound) {
		return session.CallSession{}, err
	} else if err != nil {
		return session.CallSession{}, fmt.Errorf("failed to load call record %s: %w", callID, err)
	}
	return record, nil
}

// List returns every stored call record. Badger iterates keys in sorted
// order, so the result is ordered by call id, not by time.
func (s *Store) List(_ context.Context) ([]session.CallSession, error) {
	var sessions []session.CallSession
	err := s.db.View(func(txn *badger.Txn) error {
		iteratorOpts := badger.DefaultIteratorOptions
		iteratorOpts.Prefix = recordKeyPrefix

		it := txn.NewIterator(iteratorOpts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var record session.CallSession
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			sessions = append(sessions, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list call records: %w", err)
	}
	return sessions, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
