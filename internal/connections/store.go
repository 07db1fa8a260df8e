// Package connections tracks links between a local identity and external
// parties it has interacted with, such as the apps it shared data with.
package connections

import "context"

// Store persists per-owner connection sets. Adding the same connection
// twice is a no-op.
type Store interface {
	Add(ctx context.Context, owner, kind, value string) error
	Remove(ctx context.Context, owner, kind, value string) error
	// List returns the connections of a kind in insertion order.
	List(ctx context.Context, owner, kind string) ([]string, error)
}
