package handler

import (
	"strings"

	"github.com/jamesdigid/uport-mobile/internal/disclosure"
	dErrors "github.com/jamesdigid/uport-mobile/pkg/domain-errors"
)

// ResolveRequest is the HTTP request body for POST /disclosure/requests.
type ResolveRequest struct {
	// ID is optional; the server assigns one when empty.
	ID    string `json:"id,omitempty"`
	Token string `json:"token"`
}

func (r *ResolveRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "token is required")
	}
	return nil
}

// AuthorizeRequest is the HTTP request body for
// POST /disclosure/requests/{id}/authorize.
type AuthorizeRequest struct {
	Claims          []string `json:"claims,omitempty"`
	PushPermissions bool     `json:"pushPermissions,omitempty"`
}

func (r *AuthorizeRequest) Decision() disclosure.Decision {
	return disclosure.Decision{
		Claims:          r.Claims,
		PushPermissions: r.PushPermissions,
	}
}
