package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jamesdigid/uport-mobile/internal/disclosure/ports"
	"github.com/jamesdigid/uport-mobile/internal/platform/logger"
)

// Fetcher retrieves an external party's current public profile from the
// uPort registry.
type Fetcher interface {
	Fetch(ctx context.Context, clientID string) (*External, error)
}

// Service serves cached external profiles and refreshes them on demand.
type Service struct {
	store   Store
	fetcher Fetcher
	log     *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		store:   store,
		fetcher: fetcher,
		log:     logger.New(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExternalProfile returns the cached profile for a client id, nil when
// nothing is cached yet.
func (s *Service) ExternalProfile(ctx context.Context, clientID string) (*ports.Profile, error) {
	cached, err := s.store.Get(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("read cached profile: %w", err)
	}
	if cached == nil {
		return nil, nil
	}
	return &ports.Profile{Name: cached.Name}, nil
}

// RefreshExternal fetches the party's current profile and replaces the
// cached copy. A fetch failure leaves the cache untouched.
func (s *Service) RefreshExternal(ctx context.Context, clientID string) error {
	fetched, err := s.fetcher.Fetch(ctx, clientID)
	if err != nil {
		return fmt.Errorf("fetch profile %s: %w", clientID, err)
	}
	if fetched == nil {
		return nil
	}

	fetched.ClientID = clientID
	fetched.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, *fetched); err != nil {
		return fmt.Errorf("cache profile %s: %w", clientID, err)
	}

	s.log.InfoContext(ctx, "external profile refreshed",
		slog.String("client_id", clientID),
		slog.String("name", fetched.Name),
	)
	return nil
}

// MockFetcher serves deterministic profiles with configurable latency, for
// development and tests.
type MockFetcher struct {
	Latency  time.Duration
	Profiles map[string]External
}

func (f MockFetcher) Fetch(ctx context.Context, clientID string) (*External, error) {
	select {
	case <-time.After(f.Latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p, ok := f.Profiles[clientID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
