// Package disclosure implements the decision core of the disclosure protocol:
// turning a verified shareReq payload plus wallet state into a pending
// request, and turning an approved pending request into a signed response.
package disclosure

import (
	"encoding/json"
	"fmt"
)

// ActType declares how the requester wants the subject account chosen.
type ActType string

const (
	// ActNone asks for identity-level disclosure with no account.
	ActNone ActType = "none"
	// ActGeneral accepts any account of the identity on the target chain.
	ActGeneral ActType = "general"
	// ActSegregated asks for the app-specific sub-account scoped to the
	// requesting client.
	ActSegregated ActType = "segregated"
	// ActKeyPair asks for a plain key-pair controlled account.
	ActKeyPair ActType = "keypair"
	// ActDeviceKey asks for an externally created, device-bound account.
	ActDeviceKey ActType = "devicekey"
)

// RequestType is the expected `type` claim of inbound tokens.
const RequestType = "shareReq"

// ResponseType is the `type` claim of issued responses.
const ResponseType = "shareResp"

// legacyMSThreshold separates second from millisecond iat encodings. Anything
// above it cannot be a plausible epoch in seconds.
const legacyMSThreshold = int64(100_000_000_000)

// RequestPayload is a decoded shareReq token body.
type RequestPayload struct {
	Type      string   `json:"type"`
	Issuer    string   `json:"iss"`
	IssuedAt  int64    `json:"iat"`
	Callback  string   `json:"callback"`
	Requested []string `json:"requested"`
	Verified  []string `json:"verified,omitempty"`
	Act       string   `json:"act,omitempty"`
	Net       string   `json:"net,omitempty"`
}

// PayloadFromClaims converts verified token claims into a RequestPayload.
func PayloadFromClaims(claims map[string]any) (RequestPayload, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return RequestPayload{}, fmt.Errorf("encode claims: %w", err)
	}
	var payload RequestPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return RequestPayload{}, fmt.Errorf("decode shareReq payload: %w", err)
	}
	return payload, nil
}

// Request is a pending disclosure request, resolved but not yet authorized.
// Field names mirror the wallet's activity records.
type Request struct {
	ID     string `json:"id,omitempty"`
	Target string `json:"target,omitempty"`
	// Account is the selected subject account; empty when none resolved.
	Account string `json:"account,omitempty"`
	// AccountAuthorized is present only when the payload carried an
	// explicit account type; nil otherwise.
	AccountAuthorized  *bool    `json:"accountAuthorized,omitempty"`
	ClientID           string   `json:"client_id"`
	Network            string   `json:"network,omitempty"`
	CallbackURL        string   `json:"callback_url"`
	ActType            ActType  `json:"actType"`
	Requested          []string `json:"requested"`
	ValidatedSignature bool     `json:"validatedSignature"`
	// Verified holds attestation tokens matching the payload's verified
	// claim names.
	Verified []string `json:"verified,omitempty"`
	// LegacyMS flags an iat encoded in milliseconds. The value itself is
	// passed through untouched; downstream consumers key off this flag.
	LegacyMS        bool   `json:"legacyMS,omitempty"`
	PushPermissions bool   `json:"pushPermissions,omitempty"`
	Req             string `json:"req,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Decision carries the user's approval of a pending request.
type Decision struct {
	// Claims is the subset of requested claims to release. Empty means
	// everything that was requested.
	Claims []string `json:"claims,omitempty"`
	// PushPermissions grants the client a push-notification capability.
	PushPermissions bool `json:"pushPermissions,omitempty"`
}

// Response is the issued disclosure response.
type Response struct {
	AccessToken string `json:"access_token"`
}

func errUnsupportedNetwork(name string) string {
	return fmt.Sprintf("uPort does not support %s at the moment", name)
}

func errUnsupportedContractAccounts(name string) string {
	return fmt.Sprintf("uPort does not support smart contract accounts on %s at the moment", name)
}

// ErrWrongRequestType is the activity error recorded when a token is not a
// shareReq.
const ErrWrongRequestType = "Request was not of correct type"
