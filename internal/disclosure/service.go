package disclosure

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jamesdigid/uport-mobile/internal/disclosure/metrics"
	"github.com/jamesdigid/uport-mobile/internal/disclosure/ports"
	"github.com/jamesdigid/uport-mobile/internal/network"
)

// Service is the disclosure decision core: it resolves incoming requests and
// issues responses for authorized ones. It holds only ports; all state lives
// behind them.
type Service struct {
	directory     ports.IdentityDirectory
	codec         ports.TokenCodec
	claims        ports.ClaimsProvider
	profiles      ports.ProfileStore
	refresher     ports.ProfileRefresher
	publisher     ports.DIDPublisher
	notifications ports.Notifications
	sink          ports.Sink
	pending       Store
	networks      *network.Registry
	// defaultNetwork is used when neither the payload nor the current
	// identity pins a chain.
	defaultNetwork string

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	// spawned wraps detached side-effect goroutines; tests override it to
	// observe them synchronously.
	spawn func(func())
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDefaultNetwork overrides the chain used for network-less account
// requests.
func WithDefaultNetwork(id string) Option {
	return func(s *Service) { s.defaultNetwork = id }
}

// WithDIDPublisher enables the published-DID backfill after token-path
// resolution.
func WithDIDPublisher(p ports.DIDPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// withSpawner is test-only: it makes detached work observable.
func withSpawner(spawn func(func())) Option {
	return func(s *Service) { s.spawn = spawn }
}

func NewService(
	directory ports.IdentityDirectory,
	codec ports.TokenCodec,
	claims ports.ClaimsProvider,
	profiles ports.ProfileStore,
	refresher ports.ProfileRefresher,
	notifications ports.Notifications,
	sink ports.Sink,
	pending Store,
	networks *network.Registry,
	opts ...Option,
) *Service {
	s := &Service{
		directory:      directory,
		codec:          codec,
		claims:         claims,
		profiles:       profiles,
		refresher:      refresher,
		notifications:  notifications,
		sink:           sink,
		pending:        pending,
		networks:       networks,
		defaultNetwork: "0x4",
		logger:         slog.Default(),
		tracer:         otel.Tracer("disclosure"),
		spawn:          func(fn func()) { go fn() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
