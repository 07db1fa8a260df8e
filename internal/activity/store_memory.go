package activity

import (
	"context"
	"sync"
	"time"

	"github.com/jamesdigid/uport-mobile/pkg/platform/sentinel"
)

type statKey struct {
	subject     string
	counterpart string
	kind        string
}

// InMemoryStore keeps activity bookkeeping in process.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	stats   map[statKey]InteractionStat
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]Record),
		stats:   make(map[statKey]InteractionStat),
	}
}

func (s *InMemoryStore) UpsertError(_ context.Context, id, message string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[id]
	rec.ID = id
	rec.Error = message
	rec.UpdatedAt = at
	s.records[id] = rec
	return nil
}

func (s *InMemoryStore) UpsertAuthorized(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[id]
	rec.ID = id
	rec.AuthorizedAt = &at
	rec.UpdatedAt = at
	s.records[id] = rec
	return nil
}

func (s *InMemoryStore) Record(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := rec
	return &found, nil
}

func (s *InMemoryStore) IncrementInteraction(_ context.Context, subject, counterpart, kind string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := statKey{subject: subject, counterpart: counterpart, kind: kind}
	stat := s.stats[key]
	stat.Subject = subject
	stat.Counterpart = counterpart
	stat.Kind = kind
	stat.Count++
	stat.LastAt = at
	s.stats[key] = stat
	return nil
}

func (s *InMemoryStore) Interaction(_ context.Context, subject, counterpart, kind string) (*InteractionStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stat, ok := s.stats[statKey{subject: subject, counterpart: counterpart, kind: kind}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := stat
	return &found, nil
}
