package connections

import (
	"context"
	"sync"
)

// InMemoryStore keeps connections in process memory. Suitable for tests
// and single-node deployments.
type InMemoryStore struct {
	mu    sync.RWMutex
	links map[string][]string // owner+kind -> values, insertion order
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{links: make(map[string][]string)}
}

func memKey(owner, kind string) string {
	return owner + "\x00" + kind
}

func (s *InMemoryStore) Add(_ context.Context, owner, kind, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memKey(owner, kind)
	for _, v := range s.links[key] {
		if v == value {
			return nil
		}
	}
	s.links[key] = append(s.links[key], value)
	return nil
}

func (s *InMemoryStore) Remove(_ context.Context, owner, kind, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memKey(owner, kind)
	values := s.links[key]
	for i, v := range values {
		if v == value {
			s.links[key] = append(values[:i:i], values[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *InMemoryStore) List(_ context.Context, owner, kind string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := s.links[memKey(owner, kind)]
	out := make([]string, len(values))
	copy(out, values)
	return out, nil
}
