// internal/app/features/logout/handler.go
package logout

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler ends sessions by clearing the session cookie. Tokens are not
// revoked server-side; they simply stop being presented.
type Handler struct {
	Tokens *auth.TokenManager
	Log    *zap.Logger
}

// NewHandler constructs a logout Handler.
func NewHandler(tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{Tokens: tokens, Log: logger}
}

// ServeLogout handles POST /api/auth/logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.CurrentUser(r); ok {
		h.Log.Info("user signed out", zap.String("user_id", user.ID))
	}
	h.Tokens.ClearCookie(w)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
