package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jamesdigid/uport-mobile/internal/notifications"
	"github.com/jamesdigid/uport-mobile/pkg/platform/httputil"
)

// RegisterRequest is the HTTP request body for POST /notifications/register.
type RegisterRequest struct {
	Token    string `json:"token"`
	Endpoint string `json:"endpoint"`
}

// PermissionRequest is the HTTP request body for PUT /notifications/permission.
type PermissionRequest struct {
	Allowed bool `json:"allowed"`
}

// DeviceResponse is the HTTP representation of a registered device.
type DeviceResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Mobile      bool      `json:"mobile"`
	CreatedAt   time.Time `json:"created_at"`
}

// Handler wires notification endpoints to the notifications service.
type Handler struct {
	service *notifications.Service
	logger  *slog.Logger
}

func New(service *notifications.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts notification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/notifications/register", h.HandleRegister)
	r.Put("/notifications/permission", h.HandlePermission)
}

// HandleRegister handles POST /notifications/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[RegisterRequest](w, r)
	if !ok {
		return
	}

	device, err := h.service.RegisterDevice(ctx, notifications.Registration{
		Token:     req.Token,
		Endpoint:  req.Endpoint,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, DeviceResponse{
		ID:          device.ID,
		DisplayName: device.DisplayName,
		Mobile:      device.Mobile,
		CreatedAt:   device.CreatedAt,
	})
}

// HandlePermission handles PUT /notifications/permission.
func (h *Handler) HandlePermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[PermissionRequest](w, r)
	if !ok {
		return
	}

	h.service.SetAllowed(ctx, req.Allowed)
	h.logger.InfoContext(ctx, "push permission updated", "allowed", req.Allowed)
	httputil.WriteJSON(w, http.StatusOK, PermissionRequest{Allowed: req.Allowed})
}
