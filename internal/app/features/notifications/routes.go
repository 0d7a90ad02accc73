// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the notification panel endpoints. Both require a
// signed-in caller.
func MountRoutes(r chi.Router, h *Handler, tokens *auth.TokenManager) {
	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireSignedIn)
		r.Get("/api/notifications", h.ServeList)
		r.Put("/api/notifications", h.ServeMarkRead)
	})
}
