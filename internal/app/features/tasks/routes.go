// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the task endpoints. Listing is open to any
// signed-in user; creation checks project membership in the handler.
func MountRoutes(r chi.Router, h *Handler, tokens *auth.TokenManager) {
	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireSignedIn)
		r.Get("/api/tasks", h.ServeList)
		r.Post("/api/tasks", h.ServeCreate)
	})
}
