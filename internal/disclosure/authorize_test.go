package disclosure

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesdigid/uport-mobile/internal/disclosure/ports"
	"github.com/jamesdigid/uport-mobile/internal/identity"
	"github.com/jamesdigid/uport-mobile/internal/jwttoken"
	"github.com/jamesdigid/uport-mobile/internal/network"
	dErrors "github.com/jamesdigid/uport-mobile/pkg/domain-errors"
	"github.com/jamesdigid/uport-mobile/pkg/platform/sentinel"
	"github.com/jamesdigid/uport-mobile/pkg/requestcontext"
)

func (f *fixture) generateKey(issuer string) {
	f.t.Helper()
	_, err := f.keys.Generate(issuer)
	require.NoError(f.t, err)
}

func (f *fixture) decodeToken(raw string) map[string]any {
	f.t.Helper()
	claims, err := f.codec.VerifyToken(context.Background(), raw)
	require.NoError(f.t, err)
	return claims
}

func TestAuthorize_SignsResponseWithRequestedClaims(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)
	f.atts.SetClaim("name", "Roberto Herrera")
	f.atts.SetClaim("phone", "555-1234")

	req := &Request{
		ID:        "14819973",
		Target:    rootEthr,
		ClientID:  clientApp,
		ActType:   ActNone,
		Requested: []string{"name", "phone"},
		Req:       "raw.request.token",
	}

	resp, err := f.svc.Authorize(context.Background(), req, Decision{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	claims := f.decodeToken(resp.AccessToken)
	assert.Equal(t, rootEthr, claims["iss"])
	assert.Equal(t, clientApp, claims["aud"])
	assert.Equal(t, ResponseType, claims["type"])
	assert.Equal(t, "raw.request.token", claims["req"])
	assert.Equal(t, map[string]any{"name": "Roberto Herrera", "phone": "555-1234"}, claims["own"])
	assert.NotContains(t, claims, "nad")
	assert.NotContains(t, claims, "capabilities")
}

func TestAuthorize_PartialApprovalReleasesOnlyApprovedClaims(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)
	f.atts.SetClaim("name", "Roberto Herrera")
	f.atts.SetClaim("phone", "555-1234")

	req := &Request{
		Target:    rootEthr,
		ClientID:  clientApp,
		ActType:   ActNone,
		Requested: []string{"name", "phone"},
	}

	resp, err := f.svc.Authorize(context.Background(), req, Decision{Claims: []string{"phone"}})
	require.NoError(t, err)

	claims := f.decodeToken(resp.AccessToken)
	assert.Equal(t, map[string]any{"phone": "555-1234"}, claims["own"])
}

func TestAuthorize_NeverReleasesUnrequestedClaims(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)
	f.atts.SetClaim("name", "Roberto Herrera")
	f.atts.SetClaim("ssn", "secret")

	req := &Request{
		Target:    rootEthr,
		ClientID:  clientApp,
		ActType:   ActNone,
		Requested: []string{"name"},
	}

	resp, err := f.svc.Authorize(context.Background(), req, Decision{Claims: []string{"name", "ssn"}})
	require.NoError(t, err)

	claims := f.decodeToken(resp.AccessToken)
	assert.Equal(t, map[string]any{"name": "Roberto Herrera"}, claims["own"])
}

func TestAuthorize_AccountRequestsSignByParentAndCarryNad(t *testing.T) {
	f := newFixture(t).
		withIdentity(identity.Identity{Address: rootLegacy, Network: "0x4"}).
		withAccount(identity.Account{Address: "0xappacct", Parent: rootLegacy, Network: "0x4", ClientID: clientApp, SignerType: identity.SignerTypeMetaIdentityManager})
	f.generateKey(rootLegacy)

	req := &Request{
		Target:   rootLegacy,
		Account:  "0xappacct",
		ClientID: clientApp,
		ActType:  ActSegregated,
	}

	resp, err := f.svc.Authorize(context.Background(), req, Decision{})
	require.NoError(t, err)

	claims := f.decodeToken(resp.AccessToken)
	assert.Equal(t, rootLegacy, claims["iss"], "leaf accounts never sign")
	assert.Equal(t, "0xappacct", claims["nad"])
}

func TestAuthorize_ParentlessAccountSignsAsTarget(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootLegacy, Network: "0x4"})
	f.generateKey(rootLegacy)

	req := &Request{
		Target:   rootLegacy,
		Account:  rootLegacy,
		ClientID: clientApp,
		ActType:  ActGeneral,
	}

	resp, err := f.svc.Authorize(context.Background(), req, Decision{})
	require.NoError(t, err)

	claims := f.decodeToken(resp.AccessToken)
	assert.Equal(t, rootLegacy, claims["iss"])
	assert.Equal(t, rootLegacy, claims["nad"])
}

func TestAuthorize_PushGrantRoundTrip(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{
		Address:      rootEthr,
		EncPublicKey: "9HKap0J1Z2l0ZXN0a2V5dGVzdGtleXRlc3RrZXk=",
	})
	f.generateKey(rootEthr)
	f.notifications.allowed = true
	f.notifications.endpoint = "https://api.uport.space/pututu/sns"
	f.profiles.profiles[clientApp] = profileNamed("Testapp")

	req := &Request{
		ID:        "14819973",
		Target:    rootEthr,
		ClientID:  clientApp,
		ActType:   ActNone,
		Requested: []string{"name"},
	}

	resp, err := f.svc.Authorize(context.Background(), req, Decision{PushPermissions: true})
	require.NoError(t, err)

	claims := f.decodeToken(resp.AccessToken)
	assert.Equal(t, "9HKap0J1Z2l0ZXN0a2V5dGVzdGtleXRlc3RrZXk=", claims["publicEncKey"])
	assert.Equal(t, claims["publicEncKey"], claims["boxPub"])

	capabilities, ok := claims["capabilities"].([]any)
	require.True(t, ok, "capabilities must carry the signed grant")
	require.Len(t, capabilities, 1)

	grant := f.decodeToken(capabilities[0].(string))
	assert.Equal(t, rootEthr, grant["iss"])
	assert.Equal(t, clientApp, grant["aud"])
	assert.Equal(t, "notifications", grant["type"])
	assert.Equal(t, "https://api.uport.space/pututu/sns", grant["value"])

	iat := int64(grant["iat"].(float64))
	exp := int64(grant["exp"].(float64))
	assert.EqualValues(t, jwttoken.PushGrantExpiry, exp-iat)
}

func TestAuthorize_PushSkippedWithoutUserConsent(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)
	f.notifications.allowed = true
	f.notifications.endpoint = "https://push"

	req := &Request{Target: rootEthr, ClientID: clientApp, ActType: ActNone}

	resp, err := f.svc.Authorize(context.Background(), req, Decision{})
	require.NoError(t, err)

	claims := f.decodeToken(resp.AccessToken)
	assert.NotContains(t, claims, "capabilities")
}

func TestAuthorize_PushSkippedWhenPlatformDisallows(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)
	f.notifications.endpoint = "https://push"

	req := &Request{Target: rootEthr, ClientID: clientApp, ActType: ActNone}

	resp, err := f.svc.Authorize(context.Background(), req, Decision{PushPermissions: true})
	require.NoError(t, err)

	claims := f.decodeToken(resp.AccessToken)
	assert.NotContains(t, claims, "capabilities")
}

func TestAuthorize_PushSkippedWithoutEndpoint(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)
	f.notifications.allowed = true

	req := &Request{Target: rootEthr, ClientID: clientApp, ActType: ActNone}

	resp, err := f.svc.Authorize(context.Background(), req, Decision{PushPermissions: true})
	require.NoError(t, err)

	claims := f.decodeToken(resp.AccessToken)
	assert.NotContains(t, claims, "capabilities")
}

func TestAuthorize_RequestCarryingPushPermissionTriggersGrant(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)
	f.notifications.allowed = true
	f.notifications.endpoint = "https://push"

	req := &Request{Target: rootEthr, ClientID: clientApp, ActType: ActNone, PushPermissions: true}

	resp, err := f.svc.Authorize(context.Background(), req, Decision{})
	require.NoError(t, err)

	claims := f.decodeToken(resp.AccessToken)
	assert.Contains(t, claims, "capabilities")
}

func TestAuthorize_GrantSignedBeforeResponse(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)
	f.notifications.allowed = true
	f.notifications.endpoint = "https://push"
	f.profiles.profiles[clientApp] = profileNamed("Testapp")

	codec := &recordingCodec{inner: f.codec}
	svc := NewService(
		f.dir, codec, f.atts, f.profiles, f.refresher,
		f.notifications, f.sink, f.pending, network.NewRegistry(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		withSpawner(func(fn func()) { fn() }),
	)

	req := &Request{Target: rootEthr, ClientID: clientApp, ActType: ActNone}
	_, err := svc.Authorize(context.Background(), req, Decision{PushPermissions: true})
	require.NoError(t, err)

	require.Len(t, codec.purposes, 2)
	assert.Equal(t, "Allow Testapp to send your push notifications", codec.purposes[0])
	assert.Equal(t, "Provide requested information to Testapp", codec.purposes[1])
}

func TestAuthorize_PurposeFallsBackToClientID(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)

	codec := &recordingCodec{inner: f.codec}
	svc := NewService(
		f.dir, codec, f.atts, f.profiles, f.refresher,
		f.notifications, f.sink, f.pending, network.NewRegistry(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		withSpawner(func(fn func()) { fn() }),
	)

	req := &Request{Target: rootEthr, ClientID: clientApp, ActType: ActNone}
	_, err := svc.Authorize(context.Background(), req, Decision{})
	require.NoError(t, err)

	require.Len(t, codec.purposes, 1)
	assert.Equal(t, "Provide requested information to "+clientApp, codec.purposes[0])
}

func TestAuthorize_ResponseExpiryIsOneDay(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)

	req := &Request{Target: rootEthr, ClientID: clientApp, ActType: ActNone}
	resp, err := f.svc.Authorize(context.Background(), req, Decision{})
	require.NoError(t, err)

	claims := f.decodeToken(resp.AccessToken)
	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	assert.EqualValues(t, jwttoken.Day, exp-iat)
}

func TestAuthorize_UnresolvedRequestCannotBeAuthorized(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})

	req := &Request{Target: rootEthr, ClientID: clientApp, Error: "uPort does not support infuranet at the moment"}
	_, err := f.svc.Authorize(context.Background(), req, Decision{})
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))

	_, err = f.svc.Authorize(context.Background(), nil, Decision{})
	assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))
}

func TestAuthorize_SuccessEmitsBookkeepingInOrder(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	req := &Request{ID: "14819973", Target: rootEthr, ClientID: clientApp, ActType: ActNone}
	require.NoError(t, f.pending.Save(ctx, req))

	_, err := f.svc.Authorize(ctx, req, Decision{})
	require.NoError(t, err)

	require.Equal(t, 1, f.sink.interactionCount())
	assert.Equal(t, recordedInteraction{rootEthr, clientApp, "share"}, f.sink.interactions[0])
	assert.Equal(t, []recordedInteraction{{rootEthr, "apps", clientApp}}, f.sink.connections)
	assert.Equal(t, now, f.sink.authorized["14819973"])
	assert.Equal(t, []string{"14819973"}, f.sink.cleared)

	_, err = f.pending.Get(ctx, "14819973")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestAuthorize_SigningFailureEmitsNothing(t *testing.T) {
	// No key generated for the issuer, so signing must fail.
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})

	req := &Request{ID: "14819973", Target: rootEthr, ClientID: clientApp, ActType: ActNone}
	_, err := f.svc.Authorize(context.Background(), req, Decision{})
	require.Error(t, err)

	assert.Zero(t, f.sink.interactionCount())
	assert.Empty(t, f.sink.connections)
	assert.Empty(t, f.sink.authorized)
	assert.Empty(t, f.sink.cleared)
}

func TestAuthorizeByID_ConsumesPendingRequest(t *testing.T) {
	f := newFixture(t).withIdentity(identity.Identity{Address: rootEthr})
	f.generateKey(rootEthr)

	req := &Request{ID: "14819973", Target: rootEthr, ClientID: clientApp, ActType: ActNone}
	require.NoError(t, f.pending.Save(context.Background(), req))

	resp, err := f.svc.AuthorizeByID(context.Background(), "14819973", Decision{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = f.svc.AuthorizeByID(context.Background(), "14819973", Decision{})
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func TestApprovedClaims(t *testing.T) {
	requested := []string{"name", "phone", "country"}

	assert.Equal(t, requested, approvedClaims(requested, nil))
	assert.Equal(t, []string{"name", "country"}, approvedClaims(requested, []string{"country", "name"}),
		"request order is preserved")
	assert.Empty(t, approvedClaims(requested, []string{"ssn"}))
}

type recordingCodec struct {
	inner    *jwttoken.Codec
	purposes []string
}

func (c *recordingCodec) VerifyToken(ctx context.Context, raw string) (map[string]any, error) {
	return c.inner.VerifyToken(ctx, raw)
}

func (c *recordingCodec) CreateToken(ctx context.Context, issuer string, claims map[string]any, opts jwttoken.Options, purpose string) (string, error) {
	c.purposes = append(c.purposes, purpose)
	return c.inner.CreateToken(ctx, issuer, claims, opts, purpose)
}

func profileNamed(name string) *ports.Profile {
	return &ports.Profile{Name: name}
}
