// Package activity keeps the wallet's activity feed entries and interaction
// statistics. The disclosure engine writes here through the side-effect sink.
package activity

import "time"

// Record is one activity feed entry tied to a request id.
type Record struct {
	ID           string
	Error        string
	AuthorizedAt *time.Time
	UpdatedAt    time.Time
}

// InteractionStat counts interactions between a local identity and an
// external party, per kind ("request", "share", ...).
type InteractionStat struct {
	Subject     string
	Counterpart string
	Kind        string
	Count       int64
	LastAt      time.Time
}
