package session

import (
	"context"
	"sync"
)

type entry struct {
	mu  sync.Mutex
	ids []string
}

// MemoryStore is an in-process Store. History does not survive restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	limit    int
}

func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &MemoryStore{
		sessions: make(map[string]*entry),
		limit:    limit,
	}
}

func (s *MemoryStore) Capacity() int {
	return s.limit
}

func (s *MemoryStore) lookup(key string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[key]
	return e, ok
}

func (s *MemoryStore) getOrCreate(key string) *entry {
	if e, ok := s.lookup(key); ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[key]; ok {
		return e
	}
	e := &entry{}
	s.sessions[key] = e
	return e
}

func (s *MemoryStore) Record(_ context.Context, key string, ids []string) error {
	e := s.getOrCreate(key)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = appendBounded(e.ids, ids, s.limit)
	return nil
}

func (s *MemoryStore) History(_ context.Context, key string) ([]string, error) {
	e, ok := s.lookup(key)
	if !ok {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.ids))
	copy(out, e.ids)
	return out, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) (bool, error) {
	e, ok := s.lookup(key)
	if !ok {
		return false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = nil
	return true, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}
