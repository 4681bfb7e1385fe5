package lessons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

var _ Store = (*BadgerStore)(nil)

var lessonSetKey = []byte("lessons/active")

// BadgerOptions configures the BadgerDB-backed lesson store.
type BadgerOptions struct {
	// Dir is the directory for BadgerDB data files. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs BadgerDB in memory-only mode. Useful for testing with
	// a real badger engine.
	InMemory bool

	// Capacity bounds the retained lesson set. Non-positive falls back to
	// DefaultCapacity.
	Capacity int
}

// BadgerStore persists the lesson set in a BadgerDB database. Persistence
// is best effort, not transactional across calls: a failed merge leaves the
// previously stored set intact.
type BadgerStore struct {
	db       *badger.DB
	capacity int
}

// NewBadgerStore opens (or creates) the lesson database.
func NewBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("lessons: BadgerOptions.Dir is required for on-disk mode")
	}

	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(nil)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open lesson database: %w", err)
	}

	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &BadgerStore{db: db, capacity: capacity}, nil
}

func (s *BadgerStore) Load(context.Context) ([]string, error) {
	var lessons []string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(lessonSetKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		} else if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &lessons)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson set: %w", err)
	}
	return lessons, nil
}

func (s *BadgerStore) Merge(_ context.Context, incoming []string) ([]string, error) {
	var merged []string
	err := s.db.Update(func(txn *badger.Txn) error {
		var existing []string
		item, err := txn.Get(lessonSetKey)
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		merged = merge(existing, incoming, s.capacity)
		encoded, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		return txn.Set(lessonSetKey, encoded)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to merge lesson set: %w", err)
	}
	return merged, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
