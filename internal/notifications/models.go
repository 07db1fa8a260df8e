// Package notifications holds the wallet's push-notification state: whether
// the user allowed push, the registered endpoint, and the devices behind it.
package notifications

import "time"

// Device is a registered push target.
type Device struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	Endpoint    string    `json:"endpoint"`
	DisplayName string    `json:"display_name"`
	Mobile      bool      `json:"mobile"`
	CreatedAt   time.Time `json:"created_at"`
}

// Registration is the input for registering a push device.
type Registration struct {
	Token     string
	Endpoint  string
	UserAgent string
}
