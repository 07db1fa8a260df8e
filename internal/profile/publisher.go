package profile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jamesdigid/uport-mobile/internal/platform/logger"
)

// Registry publishes a local identity's DID document to the public uPort
// registry.
type Registry interface {
	PublishDID(ctx context.Context, address string) error
}

// Publisher backfills unpublished DID documents. It tracks which addresses
// have a publish in flight or already failed, so the resolver never spawns
// the same publish twice and never retries a failed one in the same run.
type Publisher struct {
	registry Registry
	log      *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
	failed   map[string]bool
}

type PublisherOption func(*Publisher)

func WithPublisherLogger(log *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.log = log }
}

func NewPublisher(registry Registry, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		registry: registry,
		log:      logger.New(),
		inFlight: make(map[string]bool),
		failed:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// InFlight reports whether a publish for this address is running or has
// failed and should not be retried now.
func (p *Publisher) InFlight(_ context.Context, address string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight[address] || p.failed[address]
}

// Publish publishes the address's DID document. Concurrent calls for the
// same address collapse into one.
func (p *Publisher) Publish(ctx context.Context, address string) error {
	p.mu.Lock()
	if p.inFlight[address] {
		p.mu.Unlock()
		return nil
	}
	p.inFlight[address] = true
	p.mu.Unlock()

	err := p.registry.PublishDID(ctx, address)

	p.mu.Lock()
	delete(p.inFlight, address)
	if err != nil {
		p.failed[address] = true
	} else {
		delete(p.failed, address)
	}
	p.mu.Unlock()

	if err != nil {
		p.log.ErrorContext(ctx, "did publish failed",
			slog.String("address", address),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("publish did for %s: %w", address, err)
	}
	return nil
}

// Reset clears the failure memory, allowing failed publishes to be retried.
func (p *Publisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = make(map[string]bool)
}

// MockRegistry records published addresses, for tests.
type MockRegistry struct {
	mu        sync.Mutex
	Err       error
	Published []string
}

func (m *MockRegistry) PublishDID(_ context.Context, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, address)
	return nil
}
