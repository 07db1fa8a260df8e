package profile

import (
	"context"
	"sync"
)

// Store caches external profiles keyed by client id.
type Store interface {
	// Get returns nil, nil when nothing is cached for the client id.
	Get(ctx context.Context, clientID string) (*External, error)
	Put(ctx context.Context, p External) error
}

// InMemoryStore is a process-local profile cache.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]External
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[string]External)}
}

func (s *InMemoryStore) Get(_ context.Context, clientID string) (*External, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[clientID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *InMemoryStore) Put(_ context.Context, p External) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ClientID] = p
	return nil
}
