package handler

import "github.com/jamesdigid/uport-mobile/internal/disclosure"

// ResolveResponse is the HTTP response for resolved and pending requests.
// The request model already carries wire-friendly JSON tags, so it is
// embedded rather than copied field by field.
type ResolveResponse struct {
	*disclosure.Request
}

// AuthorizeResponse is the HTTP response for a successful authorization.
type AuthorizeResponse struct {
	AccessToken string `json:"access_token"`
}

func fromRequest(req *disclosure.Request) ResolveResponse {
	return ResolveResponse{Request: req}
}

func fromResponse(resp *disclosure.Response) AuthorizeResponse {
	return AuthorizeResponse{AccessToken: resp.AccessToken}
}
