// Package middleware holds the HTTP middleware shared by all handlers.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jamesdigid/uport-mobile/pkg/requestcontext"
)

// RequestID attaches a correlation id to every request, honouring one the
// caller already set.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
