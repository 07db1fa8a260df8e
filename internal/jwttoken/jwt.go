// Package jwttoken signs and verifies the JWTs exchanged in the disclosure
// protocol. Keys are held per identity; callers name the issuer explicitly
// because a response may be signed by a root identity on behalf of one of its
// sub-accounts.
package jwttoken

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "github.com/jamesdigid/uport-mobile/pkg/domain-errors"
)

// Expiry building blocks, in seconds like the wire format.
const (
	Day  = 86400
	Week = 7 * Day
)

// ResponseExpiry is the lifetime of a disclosure response token.
const ResponseExpiry = Day

// PushGrantExpiry is the lifetime of a push-notification grant token.
const PushGrantExpiry = 2*Week + Day

// Options control token creation.
type Options struct {
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64
	// Issuer is the identity whose key signs the token.
	Issuer string
}

// KeyStore resolves signing and verification keys by identity address.
type KeyStore interface {
	SigningKey(ctx context.Context, issuer string) (*ecdsa.PrivateKey, error)
	VerificationKey(ctx context.Context, issuer string) (*ecdsa.PublicKey, error)
}

// Confirmer is asked to approve each signing operation with a human-readable
// purpose string. The wallet UI hangs off this seam; the default approves
// everything.
type Confirmer interface {
	Confirm(ctx context.Context, issuer, purpose string) error
}

type approveAll struct{}

func (approveAll) Confirm(context.Context, string, string) error { return nil }

// Codec creates and verifies disclosure protocol tokens.
type Codec struct {
	keys      KeyStore
	confirmer Confirmer
	now       func() time.Time
}

// Option configures the Codec.
type Option func(*Codec)

// WithConfirmer installs a signing confirmation hook.
func WithConfirmer(c Confirmer) Option {
	return func(codec *Codec) { codec.confirmer = c }
}

// WithClock pins the clock; tests use it to make iat/exp deterministic.
func WithClock(now func() time.Time) Option {
	return func(codec *Codec) { codec.now = now }
}

func NewCodec(keys KeyStore, opts ...Option) *Codec {
	c := &Codec{keys: keys, confirmer: approveAll{}, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateToken signs claims on behalf of issuer. The purpose string is what the
// user is shown before the key is used; it never enters the token itself.
func (c *Codec) CreateToken(ctx context.Context, issuer string, claims map[string]any, opts Options, purpose string) (string, error) {
	if opts.Issuer == "" {
		opts.Issuer = issuer
	}
	if err := c.confirmer.Confirm(ctx, issuer, purpose); err != nil {
		return "", dErrors.Wrap(dErrors.CodeForbidden, "signing was not approved", err)
	}

	key, err := c.keys.SigningKey(ctx, issuer)
	if err != nil {
		return "", fmt.Errorf("signing key for %s: %w", issuer, err)
	}

	now := c.now()
	full := jwt.MapClaims{
		"iss": opts.Issuer,
		"iat": now.Unix(),
		"exp": now.Unix() + opts.ExpiresIn,
	}
	for k, v := range claims {
		full[k] = v
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodES256, full).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature of an incoming token against the issuer's
// published key and returns the decoded claims.
func (c *Codec) VerifyToken(ctx context.Context, raw string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		iss, err := token.Claims.GetIssuer()
		if err != nil || iss == "" {
			return nil, jwt.ErrTokenRequiredClaimMissing
		}
		return c.keys.VerificationKey(ctx, iss)
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Could not verify the signature of request")
	}
	return claims, nil
}
