// Package adapters wires the disclosure core's ports to the in-process
// services that implement them. When any collaborator moves out of process
// these can be swapped for remote adapters without touching the core.
package adapters

import (
	"context"
	"time"

	"github.com/jamesdigid/uport-mobile/internal/activity"
	"github.com/jamesdigid/uport-mobile/internal/audit"
	"github.com/jamesdigid/uport-mobile/internal/connections"
	"github.com/jamesdigid/uport-mobile/internal/disclosure"
	"github.com/jamesdigid/uport-mobile/internal/disclosure/ports"
)

// SinkAdapter fans the core's bookkeeping effects out to the activity,
// connections and audit services plus the pending-request store.
type SinkAdapter struct {
	activity    *activity.Service
	connections connections.Store
	audit       *audit.Publisher
	pending     disclosure.Store
}

func NewSinkAdapter(act *activity.Service, conns connections.Store, pub *audit.Publisher, pending disclosure.Store) ports.Sink {
	return &SinkAdapter{
		activity:    act,
		connections: conns,
		audit:       pub,
		pending:     pending,
	}
}

func (a *SinkAdapter) RecordInteraction(ctx context.Context, subject, counterpart, kind string) error {
	if err := a.activity.RecordInteraction(ctx, subject, counterpart, kind); err != nil {
		return err
	}
	return a.audit.Emit(ctx, audit.Event{
		Subject:  subject,
		ClientID: counterpart,
		Action:   kind,
	})
}

func (a *SinkAdapter) StoreConnection(ctx context.Context, owner, category, clientID string) error {
	return a.connections.Add(ctx, owner, category, clientID)
}

func (a *SinkAdapter) MarkAuthorized(ctx context.Context, requestID string, at time.Time) error {
	if err := a.activity.MarkAuthorized(ctx, requestID, at); err != nil {
		return err
	}
	return a.audit.Emit(ctx, audit.Event{
		Timestamp: at,
		Action:    audit.ActionAuthorize,
		RequestID: requestID,
	})
}

func (a *SinkAdapter) UpdateActivityError(ctx context.Context, requestID, message string) error {
	if err := a.activity.SetError(ctx, requestID, message); err != nil {
		return err
	}
	return a.audit.Emit(ctx, audit.Event{
		Action:    audit.ActionError,
		RequestID: requestID,
		Detail:    message,
	})
}

func (a *SinkAdapter) ClearRequest(ctx context.Context, requestID string) error {
	return a.pending.Delete(ctx, requestID)
}
