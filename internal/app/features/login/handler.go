// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/apierr"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// credentialsSignin is the failure marker the client maps to its
// "Invalid email or password" message. Every authentication failure
// carries this marker so callers cannot probe which field was wrong.
const credentialsSignin = "CredentialsSignin"

// Handler verifies credentials and issues session tokens.
type Handler struct {
	Verifier *auth.Verifier
	Tokens   *auth.TokenManager
	ErrLog   *apierr.Logger
	Log      *zap.Logger
}

// NewHandler constructs a login Handler. Credential lookups go through
// the user store; tokens come from the shared TokenManager.
func NewHandler(db *mongo.Database, tokens *auth.TokenManager, errLog *apierr.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Verifier: auth.NewVerifier(userstore.New(db), logger),
		Tokens:   tokens,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type userPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginResponse struct {
	User  userPayload `json:"user"`
	Token string      `json:"token"`
}

// ServeLogin handles POST /api/auth/login.
//
// On success the session token is both set as an HttpOnly cookie and
// returned in the body for non-browser clients. All failures are 401
// with the CredentialsSignin marker.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, r, "Invalid request body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		h.writeSigninError(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	identity, ok := h.Verifier.Verify(ctx, req.Identifier, req.Password)
	if !ok {
		h.writeSigninError(w)
		return
	}

	token, err := h.Tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		h.ErrLog.Internal(w, r, "login: issue token", err, "Sign-in failed")
		return
	}

	h.Tokens.SetCookie(w, token)
	h.Log.Info("user signed in", zap.String("user_id", identity.ID))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		User: userPayload{
			ID:       identity.ID,
			Name:     identity.Name,
			Username: identity.Username,
			Email:    identity.Email,
			Role:     identity.Role,
		},
		Token: token,
	})
}

func (h *Handler) writeSigninError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": credentialsSignin})
}
