package history

import (
	"context"
	"sync"
)

// MemoryStore keeps histories in process memory; nothing survives a restart.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]History
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]History)}
}

func (s *MemoryStore) Load(_ context.Context, owner string) (History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.docs[owner]
	if !ok {
		return History{}, nil
	}
	return h.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, owner string, h History) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[owner] = h.Clone()
	return nil
}
