package denylist

import (
	"sync"

	"github.com/haukened/extguard/internal/ext/domain"
)

// memoryStore implements Store on top of an in-memory Set.
type memoryStore struct {
	mu      sync.RWMutex
	set     Set
	version uint64
	updated int64
}

// NewMemoryStore returns an empty map-backed Store.
func NewMemoryStore() Store {
	return &memoryStore{set: NewSet(nil)}
}

func (s *memoryStore) Lookup(ext string) (domain.DenyRule, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.set.Get(ext)
	return r, ok, nil
}

func (s *memoryStore) RebuildAll(rules []domain.DenyRule, version uint64, updatedUnix int64) error {
	next := NewSet(rules)
	s.mu.Lock()
	s.set = next
	s.version = version
	s.updated = updatedUnix
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreStats{
		Version:     s.version,
		UpdatedUnix: s.updated,
		Extensions:  uint64(s.set.Len()),
	}
}

func (s *memoryStore) Close() error { return nil }

var _ Store = (*memoryStore)(nil)
