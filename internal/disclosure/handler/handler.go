package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jamesdigid/uport-mobile/internal/disclosure"
	"github.com/jamesdigid/uport-mobile/internal/disclosure/metrics"
	"github.com/jamesdigid/uport-mobile/pkg/platform/httputil"
	"github.com/jamesdigid/uport-mobile/pkg/requestcontext"
)

// Service defines the disclosure operations the HTTP surface needs.
type Service interface {
	Resolve(ctx context.Context, id, rawToken string) (*disclosure.Request, error)
	PendingRequest(ctx context.Context, id string) (*disclosure.Request, error)
	AuthorizeByID(ctx context.Context, id string, decision disclosure.Decision) (*disclosure.Response, error)
}

// Handler wires disclosure endpoints to the disclosure service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a disclosure handler with its dependencies.
func New(service Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: m,
	}
}

// Register mounts disclosure endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/disclosure/requests", h.HandleResolve)
	r.Get("/disclosure/requests/{id}", h.HandleGet)
	r.Post("/disclosure/requests/{id}/authorize", h.HandleAuthorize)
}

// HandleResolve handles POST /disclosure/requests.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.Decode[ResolveRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	resolved, err := h.service.Resolve(ctx, req.ID, req.Token)
	if err != nil {
		h.logger.ErrorContext(ctx, "disclosure resolution failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "disclosure request resolved",
		"request_id", requestID,
		"id", resolved.ID,
		"client_id", resolved.ClientID,
		"act_type", resolved.ActType,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, fromRequest(resolved))
}

// HandleGet handles GET /disclosure/requests/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	req, err := h.service.PendingRequest(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRequest(req))
}

// HandleAuthorize handles POST /disclosure/requests/{id}/authorize.
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := chi.URLParam(r, "id")
	start := time.Now()

	req, ok := httputil.Decode[AuthorizeRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.service.AuthorizeByID(ctx, id, req.Decision())
	if err != nil {
		h.logger.ErrorContext(ctx, "disclosure authorization failed",
			"request_id", requestID,
			"id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "disclosure request authorized",
		"request_id", requestID,
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromResponse(resp))
}
