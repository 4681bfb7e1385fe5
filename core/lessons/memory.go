package lessons

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the lesson set in process memory. Intended for tests
// and ephemeral demo runs.
type MemoryStore struct {
	mu       sync.Mutex
	lessons  []string
	capacity int
}

// NewMemoryStore creates an in-memory lesson store. A non-positive capacity
// falls back to DefaultCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{capacity: capacity}
}

func (s *MemoryStore) Load(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lessons := make([]string, len(s.lessons))
	copy(lessons, s.lessons)
	return lessons, nil
}

func (s *MemoryStore) Merge(_ context.Context, incoming []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lessons = merge(s.lessons, incoming, s.capacity)

	lessons := make([]string, len(s.lessons))
	copy(lessons, s.lessons)
	return lessons, nil
}
