package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/tripboard/internal/domain"
)

// memoryStore keeps documents in process memory. It is the default backend
// for local use and the backend most service tests run against.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{entries: map[string]Entry{}}
}

func (s *memoryStore) Get(_ context.Context, key string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, fmt.Errorf("repo.memoryStore.Get %q: %w", key, domain.ErrNotFound)
	}
	e.Value = append([]byte(nil), e.Value...)
	return e, nil
}

func (s *memoryStore) CompareAndSet(_ context.Context, key string, version int64, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.entries[key].Version; cur != version {
		return 0, fmt.Errorf("repo.memoryStore.CompareAndSet %q: %w", key, ErrVersionMismatch)
	}
	next := version + 1
	s.entries[key] = Entry{Key: key, Value: append([]byte(nil), value...), Version: next}
	return next, nil
}
