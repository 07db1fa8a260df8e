package activity

import (
	"context"
	"log/slog"
	"time"
)

// Service is the write path for activity bookkeeping.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock pins the clock for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordInteraction bumps the (subject, counterpart, kind) counter.
func (s *Service) RecordInteraction(ctx context.Context, subject, counterpart, kind string) error {
	return s.store.IncrementInteraction(ctx, subject, counterpart, kind, s.now())
}

// MarkAuthorized stamps the activity record as authorized.
func (s *Service) MarkAuthorized(ctx context.Context, id string, at time.Time) error {
	return s.store.UpsertAuthorized(ctx, id, at)
}

// SetError attaches a user-visible error message to an activity record.
func (s *Service) SetError(ctx context.Context, id, message string) error {
	return s.store.UpsertError(ctx, id, message, s.now())
}

// Record returns one activity record.
func (s *Service) Record(ctx context.Context, id string) (*Record, error) {
	return s.store.Record(ctx, id)
}

// Interaction returns the stat row for a (subject, counterpart, kind) triple.
func (s *Service) Interaction(ctx context.Context, subject, counterpart, kind string) (*InteractionStat, error) {
	return s.store.Interaction(ctx, subject, counterpart, kind)
}
