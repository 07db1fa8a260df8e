// Package ports defines the collaborator interfaces the disclosure core
// depends on. Each is defined here rather than imported from its
// implementing module to avoid coupling, mirroring how other modules keep
// their own port definitions.
package ports

import (
	"context"
	"time"

	"github.com/jamesdigid/uport-mobile/internal/identity"
	"github.com/jamesdigid/uport-mobile/internal/jwttoken"
)

// IdentityDirectory is the read-only view of the wallet's identities and
// accounts. AccountsForNetwork returns accounts in creation order; the
// resolver's "first listed" tie-break depends on that.
type IdentityDirectory interface {
	CurrentAddress(ctx context.Context) (string, error)
	AccountsForNetwork(ctx context.Context, networkID string) ([]identity.Account, error)
	// AccountForClientIDSignerTypeAndNetwork returns nil, nil when no
	// matching account exists; that is not an error.
	AccountForClientIDSignerTypeAndNetwork(ctx context.Context, networkID, clientID string, signer identity.SignerType) (*identity.Account, error)
	NetworkForAddress(ctx context.Context, address string) (string, error)
	ParentOf(ctx context.Context, address string) (string, error)
	HasPublishedDID(ctx context.Context, address string) (bool, error)
	PublicEncKey(ctx context.Context, address string) (string, error)
}

// TokenCodec verifies inbound tokens and signs outbound ones.
type TokenCodec interface {
	VerifyToken(ctx context.Context, raw string) (map[string]any, error)
	CreateToken(ctx context.Context, issuer string, claims map[string]any, opts jwttoken.Options, purpose string) (string, error)
}

// ClaimsProvider resolves claim names to their current values for the
// identity, and attestation tokens for verified claims.
type ClaimsProvider interface {
	RequestedClaims(ctx context.Context, names []string) (map[string]any, error)
	VerifiedClaimsTokens(ctx context.Context, names []string) ([]string, error)
}

// Profile is the cached public profile of an external party.
type Profile struct {
	Name string
}

// ProfileStore reads cached external profiles. A nil profile means nothing is
// cached yet.
type ProfileStore interface {
	ExternalProfile(ctx context.Context, clientID string) (*Profile, error)
}

// ProfileRefresher refreshes an external party's cached profile. The resolver
// spawns it detached; its outcome never affects resolution.
type ProfileRefresher interface {
	RefreshExternal(ctx context.Context, clientID string) error
}

// DIDPublisher backfills unpublished DID documents for local identities.
// Spawned detached after token-path resolution when the target has not
// published yet.
type DIDPublisher interface {
	// InFlight reports whether a publish for this address is already
	// running or has failed and should not be retried now.
	InFlight(ctx context.Context, address string) bool
	Publish(ctx context.Context, address string) error
}

// Notifications exposes the device's push-notification state.
type Notifications interface {
	Allowed(ctx context.Context) bool
	// Endpoint returns the registered push endpoint, "" when none exists.
	Endpoint(ctx context.Context) (string, error)
}

// Sink receives the bookkeeping effects the core triggers. Implementations
// must tolerate being called fire-and-forget; failures are logged, never
// propagated into resolution or authorization results.
type Sink interface {
	RecordInteraction(ctx context.Context, subject, counterpart, kind string) error
	StoreConnection(ctx context.Context, owner, category, clientID string) error
	MarkAuthorized(ctx context.Context, requestID string, at time.Time) error
	UpdateActivityError(ctx context.Context, requestID, message string) error
	ClearRequest(ctx context.Context, requestID string) error
}
