package disclosure

import "context"

// Store persists pending disclosure requests between resolution and
// authorization. Swap with concrete storage without touching the service.
type Store interface {
	Save(ctx context.Context, req *Request) error
	// Get returns sentinel.ErrNotFound when the id is unknown or consumed.
	Get(ctx context.Context, id string) (*Request, error)
	Delete(ctx context.Context, id string) error
}
