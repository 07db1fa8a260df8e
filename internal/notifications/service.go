package notifications

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamesdigid/uport-mobile/internal/platform/logger"
	dErrors "github.com/jamesdigid/uport-mobile/pkg/domain-errors"
)

// Service tracks push-notification consent and devices for the wallet. The
// wallet is single-user, so the state is not keyed by owner.
type Service struct {
	log   *slog.Logger
	now   func() time.Time
	newID func() string

	mu       sync.RWMutex
	allowed  bool
	endpoint string
	devices  []Device
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(opts ...Option) *Service {
	s := &Service{
		log:   logger.New(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allowed reports whether the user granted push-notification consent.
func (s *Service) Allowed(_ context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowed
}

// Endpoint returns the current push endpoint, "" when no device registered.
func (s *Service) Endpoint(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endpoint, nil
}

// SetAllowed records the user's push-notification consent decision.
func (s *Service) SetAllowed(_ context.Context, allowed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowed = allowed
}

// RegisterDevice registers a push device and makes its endpoint current.
func (s *Service) RegisterDevice(ctx context.Context, reg Registration) (*Device, error) {
	if reg.Token == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "device token is required")
	}
	if reg.Endpoint == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "push endpoint is required")
	}

	device := Device{
		ID:          s.newID(),
		Token:       reg.Token,
		Endpoint:    reg.Endpoint,
		DisplayName: ParseUserAgent(reg.UserAgent),
		Mobile:      isMobile(reg.UserAgent),
		CreatedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	s.devices = append(s.devices, device)
	s.endpoint = device.Endpoint
	s.mu.Unlock()

	s.log.InfoContext(ctx, "push device registered",
		slog.String("device_id", device.ID),
		slog.String("display_name", device.DisplayName),
	)
	return &device, nil
}

// Devices returns the registered devices in registration order.
func (s *Service) Devices(_ context.Context) []Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Device, len(s.devices))
	copy(out, s.devices)
	return out
}
