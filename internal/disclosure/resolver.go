package disclosure

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jamesdigid/uport-mobile/internal/identity"
	dErrors "github.com/jamesdigid/uport-mobile/pkg/domain-errors"
)

// profileRefreshTimeout bounds the detached external-profile refresh.
const profileRefreshTimeout = 15 * time.Second

// Resolve is the token entry point: it verifies rawToken, then resolves it
// like Handle. Verification and wrong-type failures never produce a partial
// request; they are recorded against the activity and returned as errors.
func (s *Service) Resolve(ctx context.Context, id, rawToken string) (*Request, error) {
	ctx, span := s.tracer.Start(ctx, "disclosure.Resolve")
	defer span.End()

	if id == "" {
		id = uuid.NewString()
	}

	claims, err := s.codec.VerifyToken(ctx, rawToken)
	if err != nil {
		s.recordActivityError(ctx, id, err.Error())
		return nil, err
	}

	payload, err := PayloadFromClaims(claims)
	if err != nil {
		s.recordActivityError(ctx, id, err.Error())
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "malformed request token", err)
	}
	if payload.Type != RequestType {
		s.recordActivityError(ctx, id, ErrWrongRequestType)
		return nil, dErrors.New(dErrors.CodeBadRequest, ErrWrongRequestType)
	}

	req, err := s.Handle(ctx, payload, rawToken)
	if err != nil {
		return nil, err
	}
	req.ID = id

	if req.Error != "" {
		s.recordActivityError(ctx, id, req.Error)
		return nil, dErrors.New(dErrors.CodeBadRequest, req.Error)
	}

	if err := s.pending.Save(ctx, req); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "store pending request", err)
	}

	s.maybePublishDID(ctx, req.Target)

	return req, nil
}

// Handle resolves an already-decoded payload. It is the synchronous variant
// used for in-process requests; the token path funnels into it after
// verification. Domain failures land in the returned request's Error field,
// the error return is for infrastructure only.
func (s *Service) Handle(ctx context.Context, payload RequestPayload, rawToken string) (*Request, error) {
	ctx, span := s.tracer.Start(ctx, "disclosure.Handle")
	defer span.End()

	start := time.Now()

	current, err := s.directory.CurrentAddress(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "no current identity", err)
	}

	req := &Request{
		ClientID:           payload.Issuer,
		CallbackURL:        payload.Callback,
		Requested:          payload.Requested,
		Req:                rawToken,
		ValidatedSignature: true,
		LegacyMS:           payload.IssuedAt > legacyMSThreshold,
	}

	explicit := payload.Act != ""
	req.ActType = s.defaultActType(ctx, current)
	if explicit {
		req.ActType = ActType(payload.Act)
	}

	if msg := s.validateNetwork(payload.Net, req.ActType); msg != "" {
		req.Network = payload.Net
		req.Target = current
		if explicit && req.ActType != ActNone {
			authorized := false
			req.AccountAuthorized = &authorized
		}
		req.Error = msg
		s.metrics.ObserveResolution(string(req.ActType), "error", time.Since(start))
		return req, nil
	}

	switch req.ActType {
	case ActNone:
		req.Target = current
		req.Network = payload.Net
	case ActGeneral:
		if err := s.resolveGeneral(ctx, req, payload, current, explicit); err != nil {
			return nil, err
		}
	case ActSegregated, ActKeyPair, ActDeviceKey:
		if msg := s.resolveScoped(ctx, req, payload, current); msg != "" {
			req.Target = current
			req.Error = msg
			s.metrics.ObserveResolution(string(req.ActType), "error", time.Since(start))
			return req, nil
		}
	default:
		req.Target = current
		req.Error = ErrWrongRequestType
		s.metrics.ObserveResolution(string(req.ActType), "error", time.Since(start))
		return req, nil
	}

	s.attachVerified(ctx, req, payload)

	if err := s.sink.RecordInteraction(ctx, req.Target, req.ClientID, "request"); err != nil {
		s.logger.ErrorContext(ctx, "record interaction failed", "target", req.Target, "client_id", req.ClientID, "error", err)
	}
	s.spawnProfileRefresh(ctx, req.ClientID)

	s.metrics.ObserveResolution(string(req.ActType), "ok", time.Since(start))
	return req, nil
}

// defaultActType picks the account strategy when the payload names none.
// Legacy chain-bound identities historically got a general account; did:
// identities are chain-agnostic and disclose at identity level only.
func (s *Service) defaultActType(_ context.Context, current string) ActType {
	if strings.HasPrefix(current, "did:") {
		return ActNone
	}
	return ActGeneral
}

// validateNetwork applies the supported-network check. Device-key requests
// may name arbitrary private chains and are exempt.
func (s *Service) validateNetwork(net string, act ActType) string {
	if net == "" || act == ActDeviceKey {
		return ""
	}
	settings, known := s.networks.Settings(net)
	if !known || !settings.Supported {
		return errUnsupportedNetwork(s.networks.Name(net))
	}
	if act == ActSegregated && !settings.ContractAccounts {
		return errUnsupportedContractAccounts(settings.Name)
	}
	return ""
}

func (s *Service) effectiveNetwork(ctx context.Context, requested, current string) string {
	if requested != "" {
		return requested
	}
	if net, err := s.directory.NetworkForAddress(ctx, current); err == nil && net != "" {
		return net
	}
	return s.defaultNetwork
}

// resolveGeneral picks any account of the identity on the effective chain.
// Precedence: the current identity itself when it lives on that chain, then
// the first account in directory order, then no account at all.
func (s *Service) resolveGeneral(ctx context.Context, req *Request, payload RequestPayload, current string, explicit bool) error {
	effNet := s.effectiveNetwork(ctx, payload.Net, current)
	req.Network = effNet

	currentNet, err := s.directory.NetworkForAddress(ctx, current)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "resolve current identity network", err)
	}
	if currentNet == effNet && currentNet != "" {
		req.Target = current
		req.Account = current
		if explicit {
			authorized := false
			req.AccountAuthorized = &authorized
		}
		return nil
	}

	accounts, err := s.directory.AccountsForNetwork(ctx, effNet)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "list accounts", err)
	}

	var chosen *identity.Account
	for i := range accounts {
		if accounts[i].Address == current {
			chosen = &accounts[i]
			break
		}
	}
	if chosen == nil && len(accounts) > 0 {
		chosen = &accounts[0]
	}

	if chosen == nil {
		req.Target = current
	} else {
		req.Account = chosen.Address
		req.Target = chosen.Parent
		if req.Target == "" {
			req.Target = chosen.Address
		}
	}
	if explicit {
		authorized := chosen != nil && chosen.Authorized
		req.AccountAuthorized = &authorized
	}
	return nil
}

// resolveScoped handles the single-account lookups (segregated, keypair,
// devicekey). They share one lookup shape and differ only in signer kind.
func (s *Service) resolveScoped(ctx context.Context, req *Request, payload RequestPayload, current string) string {
	effNet := s.effectiveNetwork(ctx, payload.Net, current)
	req.Network = effNet

	// The default chain also has to support hosted accounts when the
	// payload did not pin one.
	if payload.Net == "" && req.ActType == ActSegregated {
		if settings, known := s.networks.Settings(effNet); known && !settings.ContractAccounts {
			return errUnsupportedContractAccounts(settings.Name)
		}
	}

	acct, err := s.directory.AccountForClientIDSignerTypeAndNetwork(ctx, effNet, req.ClientID, signerFor(req.ActType))
	if err != nil {
		s.logger.ErrorContext(ctx, "account lookup failed", "network", effNet, "client_id", req.ClientID, "error", err)
		return errUnsupportedNetwork(s.networks.Name(effNet))
	}

	authorized := false
	if acct != nil {
		req.Account = acct.Address
		req.Target = acct.Parent
		if req.Target == "" {
			req.Target = acct.Address
		}
		authorized = acct.Authorized
	} else {
		req.Target = current
	}
	req.AccountAuthorized = &authorized
	return ""
}

func signerFor(act ActType) identity.SignerType {
	if act == ActKeyPair {
		return identity.SignerTypeKeyPair
	}
	return identity.SignerTypeMetaIdentityManager
}

// attachVerified resolves attestation tokens for the payload's verified
// claim names. Failures degrade to an unverified request rather than
// blocking resolution.
func (s *Service) attachVerified(ctx context.Context, req *Request, payload RequestPayload) {
	if len(payload.Verified) == 0 {
		return
	}
	tokens, err := s.claims.VerifiedClaimsTokens(ctx, payload.Verified)
	if err != nil {
		s.logger.ErrorContext(ctx, "verified claims lookup failed", "client_id", req.ClientID, "error", err)
		return
	}
	req.Verified = tokens
}

// spawnProfileRefresh fires the external-profile refresh without awaiting it.
// The detached context survives the request but is bounded so refreshes
// cannot pile up forever.
func (s *Service) spawnProfileRefresh(ctx context.Context, clientID string) {
	logger := s.logger
	refresher := s.refresher
	detached := context.WithoutCancel(ctx)
	s.spawn(func() {
		refreshCtx, cancel := context.WithTimeout(detached, profileRefreshTimeout)
		defer cancel()
		if err := refresher.RefreshExternal(refreshCtx, clientID); err != nil {
			logger.DebugContext(refreshCtx, "external profile refresh failed", "client_id", clientID, "error", err)
		}
	})
}

// maybePublishDID spawns a DID document publish for targets that have not
// published yet. Best effort: lookup failures and in-flight publishes skip.
func (s *Service) maybePublishDID(ctx context.Context, target string) {
	if s.publisher == nil {
		return
	}
	published, err := s.directory.HasPublishedDID(ctx, target)
	if err != nil || published || s.publisher.InFlight(ctx, target) {
		return
	}
	logger := s.logger
	publisher := s.publisher
	detached := context.WithoutCancel(ctx)
	s.spawn(func() {
		if err := publisher.Publish(detached, target); err != nil {
			logger.ErrorContext(detached, "publish DID document failed", "address", target, "error", err)
		}
	})
}

func (s *Service) recordActivityError(ctx context.Context, id, message string) {
	if err := s.sink.UpdateActivityError(ctx, id, message); err != nil {
		s.logger.ErrorContext(ctx, "update activity failed", "id", id, "error", err)
	}
}
