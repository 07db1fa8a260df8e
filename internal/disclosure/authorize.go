package disclosure

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jamesdigid/uport-mobile/internal/jwttoken"
	dErrors "github.com/jamesdigid/uport-mobile/pkg/domain-errors"
	"github.com/jamesdigid/uport-mobile/pkg/requestcontext"
)

// Authorize turns an approved pending request into a signed disclosure
// response. It must only be called after explicit user approval; the
// surrounding request lifecycle guarantees at most one authorization per
// request. No side effect fires unless signing succeeded.
func (s *Service) Authorize(ctx context.Context, req *Request, decision Decision) (*Response, error) {
	ctx, span := s.tracer.Start(ctx, "disclosure.Authorize")
	defer span.End()

	start := time.Now()

	if req == nil || req.Error != "" {
		return nil, dErrors.New(dErrors.CodeConflict, "request did not resolve and cannot be authorized")
	}

	issuer, err := s.resolveIssuer(ctx, req)
	if err != nil {
		return nil, err
	}

	var (
		own         map[string]any
		displayName string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		own, err = s.claims.RequestedClaims(gctx, approvedClaims(req.Requested, decision.Claims))
		if err != nil {
			return dErrors.Wrap(dErrors.CodeInternal, "resolve requested claims", err)
		}
		return nil
	})
	g.Go(func() error {
		displayName = s.clientDisplayName(gctx, req.ClientID)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.ObserveAuthorization("error", time.Since(start))
		return nil, err
	}

	payload := map[string]any{
		"aud":  req.ClientID,
		"type": ResponseType,
		"own":  own,
	}
	if req.ActType != ActNone && req.Account != "" {
		payload["nad"] = req.Account
	}
	if req.Req != "" {
		payload["req"] = req.Req
	}

	pushed, err := s.attachPushGrant(ctx, req, decision, issuer, displayName, payload)
	if err != nil {
		s.metrics.ObserveAuthorization("error", time.Since(start))
		return nil, err
	}

	token, err := s.codec.CreateToken(ctx, issuer, payload,
		jwttoken.Options{ExpiresIn: jwttoken.ResponseExpiry, Issuer: issuer},
		fmt.Sprintf("Provide requested information to %s", displayName))
	if err != nil {
		s.metrics.ObserveAuthorization("error", time.Since(start))
		return nil, dErrors.Wrap(dErrors.CodeInternal, "sign disclosure response", err)
	}

	s.emitAuthorizationEffects(ctx, req, issuer)

	outcome := "ok"
	if pushed {
		outcome = "ok_with_push"
	}
	s.metrics.ObserveAuthorization(outcome, time.Since(start))

	return &Response{AccessToken: token}, nil
}

// AuthorizeByID authorizes a stored pending request. Unknown or already
// consumed ids fail with not-found; the pending entry is removed once the
// response is signed, so a second authorization cannot happen.
func (s *Service) AuthorizeByID(ctx context.Context, id string, decision Decision) (*Response, error) {
	req, err := s.pending.Get(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "no pending request with this id", err)
	}
	return s.Authorize(ctx, req, decision)
}

// PendingRequest returns a stored pending request.
func (s *Service) PendingRequest(ctx context.Context, id string) (*Request, error) {
	req, err := s.pending.Get(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "no pending request with this id", err)
	}
	return req, nil
}

// resolveIssuer finds the identity that signs the response: always the
// root-most identity on the path, never a leaf sub-account.
func (s *Service) resolveIssuer(ctx context.Context, req *Request) (string, error) {
	if req.ActType == ActNone || req.Account == "" {
		return req.Target, nil
	}
	parent, err := s.directory.ParentOf(ctx, req.Account)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "resolve account parent", err)
	}
	if parent != "" {
		return parent, nil
	}
	return req.Target, nil
}

// approvedClaims intersects the user's approval with what was requested,
// preserving request order. Claims never requested are never released.
func approvedClaims(requested, approved []string) []string {
	if len(approved) == 0 {
		return requested
	}
	allow := make(map[string]struct{}, len(approved))
	for _, name := range approved {
		allow[name] = struct{}{}
	}
	result := make([]string, 0, len(requested))
	for _, name := range requested {
		if _, ok := allow[name]; ok {
			result = append(result, name)
		}
	}
	return result
}

func (s *Service) clientDisplayName(ctx context.Context, clientID string) string {
	profile, err := s.profiles.ExternalProfile(ctx, clientID)
	if err != nil || profile == nil || profile.Name == "" {
		return clientID
	}
	return profile.Name
}

// attachPushGrant signs the notification grant and advertises it on the main
// payload when the user granted push, the platform allows notifications, and
// an endpoint is registered. Any precondition failing skips the branch
// silently; a signing failure is fatal.
func (s *Service) attachPushGrant(ctx context.Context, req *Request, decision Decision, issuer, displayName string, payload map[string]any) (bool, error) {
	if !decision.PushPermissions && !req.PushPermissions {
		return false, nil
	}
	if !s.notifications.Allowed(ctx) {
		return false, nil
	}
	endpoint, err := s.notifications.Endpoint(ctx)
	if err != nil || endpoint == "" {
		return false, nil
	}

	grant, err := s.codec.CreateToken(ctx, issuer, map[string]any{
		"aud":   req.ClientID,
		"type":  "notifications",
		"value": endpoint,
	}, jwttoken.Options{ExpiresIn: jwttoken.PushGrantExpiry, Issuer: issuer},
		fmt.Sprintf("Allow %s to send your push notifications", displayName))
	if err != nil {
		return false, dErrors.Wrap(dErrors.CodeInternal, "sign push grant", err)
	}

	encKey, err := s.directory.PublicEncKey(ctx, issuer)
	if err != nil {
		return false, dErrors.Wrap(dErrors.CodeInternal, "resolve encryption key", err)
	}

	payload["publicEncKey"] = encKey
	payload["boxPub"] = encKey
	payload["capabilities"] = []string{grant}
	return true, nil
}

// emitAuthorizationEffects fires the post-issuance bookkeeping. Failures are
// logged and never fail the authorization; the response is already signed.
func (s *Service) emitAuthorizationEffects(ctx context.Context, req *Request, issuer string) {
	now := requestcontext.Now(ctx)

	if err := s.sink.RecordInteraction(ctx, issuer, req.ClientID, "share"); err != nil {
		s.logger.ErrorContext(ctx, "record interaction failed", "issuer", issuer, "error", err)
	}
	if err := s.sink.StoreConnection(ctx, issuer, "apps", req.ClientID); err != nil {
		s.logger.ErrorContext(ctx, "store connection failed", "issuer", issuer, "error", err)
	}
	if req.ID != "" {
		if err := s.sink.MarkAuthorized(ctx, req.ID, now); err != nil {
			s.logger.ErrorContext(ctx, "mark authorized failed", "id", req.ID, "error", err)
		}
		if err := s.sink.ClearRequest(ctx, req.ID); err != nil {
			s.logger.ErrorContext(ctx, "clear request failed", "id", req.ID, "error", err)
		}
		if err := s.pending.Delete(ctx, req.ID); err != nil {
			s.logger.ErrorContext(ctx, "delete pending request failed", "id", req.ID, "error", err)
		}
	}
}
