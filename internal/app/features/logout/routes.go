// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

// MountRoutes registers POST /api/auth/logout on the supplied router.
// Logging out an anonymous caller is a no-op, so no auth middleware is
// required.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/api/auth/logout", h.ServeLogout)
}
