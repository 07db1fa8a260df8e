package disclosure

import (
	"context"
	"sync"

	"github.com/jamesdigid/uport-mobile/pkg/platform/sentinel"
)

// InMemoryStore keeps pending requests in process.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[string]Request
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{requests: make(map[string]Request)}
}

func (s *InMemoryStore) Save(_ context.Context, req *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = *req
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := req
	return &found, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.requests, id)
	return nil
}
