package disclosure

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jamesdigid/uport-mobile/internal/attestations"
	"github.com/jamesdigid/uport-mobile/internal/disclosure/ports"
	"github.com/jamesdigid/uport-mobile/internal/identity"
	"github.com/jamesdigid/uport-mobile/internal/jwttoken"
	"github.com/jamesdigid/uport-mobile/internal/network"
)

type recordedInteraction struct {
	subject, counterpart, kind string
}

// fakeSink records every bookkeeping effect so tests can assert exact
// ordering and absence.
type fakeSink struct {
	mu           sync.Mutex
	interactions []recordedInteraction
	connections  []recordedInteraction
	authorized   map[string]time.Time
	activityErrs map[string]string
	cleared      []string
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		authorized:   make(map[string]time.Time),
		activityErrs: make(map[string]string),
	}
}

func (s *fakeSink) RecordInteraction(_ context.Context, subject, counterpart, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, recordedInteraction{subject, counterpart, kind})
	return nil
}

func (s *fakeSink) StoreConnection(_ context.Context, owner, category, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections = append(s.connections, recordedInteraction{owner, category, clientID})
	return nil
}

func (s *fakeSink) MarkAuthorized(_ context.Context, requestID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorized[requestID] = at
	return nil
}

func (s *fakeSink) UpdateActivityError(_ context.Context, requestID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activityErrs[requestID] = message
	return nil
}

func (s *fakeSink) ClearRequest(_ context.Context, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, requestID)
	return nil
}

func (s *fakeSink) interactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.interactions)
}

type fakeProfiles struct {
	profiles map[string]*ports.Profile
}

func (p *fakeProfiles) ExternalProfile(_ context.Context, clientID string) (*ports.Profile, error) {
	return p.profiles[clientID], nil
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls []string
}

func (r *fakeRefresher) RefreshExternal(_ context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, clientID)
	return nil
}

func (r *fakeRefresher) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type fakeNotifications struct {
	allowed  bool
	endpoint string
}

func (n *fakeNotifications) Allowed(context.Context) bool { return n.allowed }

func (n *fakeNotifications) Endpoint(context.Context) (string, error) { return n.endpoint, nil }

type fakePublisher struct {
	mu        sync.Mutex
	inFlight  map[string]bool
	published []string
}

func (p *fakePublisher) InFlight(_ context.Context, address string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight[address]
}

func (p *fakePublisher) Publish(_ context.Context, address string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, address)
	return nil
}

// fixture assembles a service around in-memory collaborators. Detached work
// runs inline so tests observe it synchronously.
type fixture struct {
	t             *testing.T
	dir           *identity.InMemoryDirectory
	keys          *jwttoken.MemoryKeyStore
	codec         *jwttoken.Codec
	atts          *attestations.Service
	profiles      *fakeProfiles
	refresher     *fakeRefresher
	notifications *fakeNotifications
	sink          *fakeSink
	publisher     *fakePublisher
	pending       Store
	svc           *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		t:             t,
		dir:           identity.NewInMemoryDirectory(),
		keys:          jwttoken.NewMemoryKeyStore(),
		atts:          attestations.NewService(),
		profiles:      &fakeProfiles{profiles: make(map[string]*ports.Profile)},
		refresher:     &fakeRefresher{},
		notifications: &fakeNotifications{},
		sink:          newFakeSink(),
		publisher:     &fakePublisher{inFlight: make(map[string]bool)},
		pending:       NewInMemoryStore(),
	}
	f.codec = jwttoken.NewCodec(f.keys)

	all := append([]Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithDIDPublisher(f.publisher),
		withSpawner(func(fn func()) { fn() }),
	}, opts...)

	f.svc = NewService(
		f.dir, f.codec, f.atts, f.profiles, f.refresher,
		f.notifications, f.sink, f.pending, network.NewRegistry(),
		all...,
	)
	return f
}

// withIdentity registers an identity and makes the first one current.
func (f *fixture) withIdentity(ident identity.Identity) *fixture {
	f.dir.AddIdentity(ident)
	return f
}

func (f *fixture) withAccount(acct identity.Account) *fixture {
	f.dir.AddAccount(acct)
	return f
}

// signRequest signs a shareReq token with the client's own key so the
// resolver's verification passes.
func (f *fixture) signRequest(clientID string, claims map[string]any) string {
	f.t.Helper()

	if _, err := f.keys.SigningKey(context.Background(), clientID); err != nil {
		_, err = f.keys.Generate(clientID)
		require.NoError(f.t, err)
	}

	full := map[string]any{"type": RequestType}
	for k, v := range claims {
		full[k] = v
	}
	token, err := f.codec.CreateToken(context.Background(), clientID, full,
		jwttoken.Options{ExpiresIn: 600}, "test request")
	require.NoError(f.t, err)
	return token
}

func (f *fixture) payload(clientID string, mutate func(*RequestPayload)) RequestPayload {
	p := RequestPayload{
		Type:      RequestType,
		Issuer:    clientID,
		IssuedAt:  time.Now().Unix(),
		Callback:  "https://testapp.uport.me/callback",
		Requested: []string{"name", "phone"},
	}
	if mutate != nil {
		mutate(&p)
	}
	return p
}
