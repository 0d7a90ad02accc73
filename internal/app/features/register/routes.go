// internal/app/features/register/routes.go
package register

import "github.com/go-chi/chi/v5"

// MountRoutes registers POST /api/auth/register on the supplied router.
// Registration is open to unauthenticated callers.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/api/auth/register", h.ServeRegister)
}
