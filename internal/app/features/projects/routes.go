// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the project endpoints. All of them require a
// signed-in caller; ownership checks happen in the handlers.
func MountRoutes(r chi.Router, h *Handler, tokens *auth.TokenManager) {
	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireSignedIn)
		r.Route("/api/projects", func(r chi.Router) {
			r.Get("/", h.ServeList)
			r.Post("/", h.ServeCreate)
			r.Get("/{id}", h.ServeDetail)
			r.Put("/{id}", h.ServeUpdate)
			r.Delete("/{id}", h.ServeDelete)
			r.Post("/{id}/members", h.ServeAddMember)
		})
	})
}
