package activity

import (
	"context"
	"time"
)

// Store persists activity records and interaction stats.
type Store interface {
	UpsertError(ctx context.Context, id, message string, at time.Time) error
	UpsertAuthorized(ctx context.Context, id string, at time.Time) error
	// Record returns sentinel.ErrNotFound for unknown ids.
	Record(ctx context.Context, id string) (*Record, error)
	IncrementInteraction(ctx context.Context, subject, counterpart, kind string, at time.Time) error
	Interaction(ctx context.Context, subject, counterpart, kind string) (*InteractionStat, error)
}
