// Package profile caches the public profiles of external parties (the apps
// sending disclosure requests) and backfills unpublished DID documents for
// local identities.
package profile

import "time"

// External is the cached public profile of an external party.
type External struct {
	ClientID    string    `json:"client_id"`
	Name        string    `json:"name"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
