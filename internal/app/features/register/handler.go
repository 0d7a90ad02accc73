// internal/app/features/register/handler.go
package register

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/apierr"
	"github.com/dalemusser/taskhub/internal/app/system/inputval"
	"github.com/dalemusser/taskhub/internal/app/system/normalize"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler creates new password-auth accounts.
type Handler struct {
	Users  *userstore.Store
	ErrLog *apierr.Logger
	Log    *zap.Logger
}

// NewHandler constructs a register Handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *apierr.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// validate returns the first violated rule's message, or "" when the
// request is acceptable. Rules are checked in field order so the client
// sees the same message every time.
func (req *registerRequest) validate() string {
	if utf8.RuneCountInString(req.Name) < 2 {
		return "Name must be at least 2 characters"
	}
	if utf8.RuneCountInString(req.Username) < 3 {
		return "Username must be at least 3 characters"
	}
	if !inputval.IsValidUsername(req.Username) {
		return "Username must contain only letters, numbers, and underscores"
	}
	if !inputval.IsValidEmail(req.Email) {
		return "Invalid email address"
	}
	if utf8.RuneCountInString(req.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

// ServeRegister handles POST /api/auth/register.
//
// 201 with the created account (password hash omitted) on success,
// 400 with the first violated validation rule or a duplicate
// email/username message, 500 on storage failure.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, r, "Invalid request body")
		return
	}

	req.Name = normalize.Name(req.Name)
	req.Username = normalize.Username(req.Username)
	req.Email = normalize.Email(req.Email)

	if msg := req.validate(); msg != "" {
		h.ErrLog.BadRequest(w, r, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Users.FindByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Internal(w, r, "register: lookup existing user", err, "Registration failed")
		return
	}
	if existing != nil {
		if existing.EmailCI == text.Fold(req.Email) {
			h.ErrLog.Conflict(w, r, "User with this email already exists")
		} else {
			h.ErrLog.Conflict(w, r, "User with this username already exists")
		}
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.Internal(w, r, "register: hash password", err, "Registration failed")
		return
	}
	hashStr := string(hash)

	user, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hashStr,
		AuthMethod:   models.AuthPassword,
	})
	if err != nil {
		// The unique indexes can still fire between the lookup and the
		// insert.
		if errors.Is(err, userstore.ErrDuplicate) {
			h.ErrLog.Conflict(w, r, "User with this email already exists")
			return
		}
		h.ErrLog.Internal(w, r, "register: insert user", err, "Registration failed")
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("username", user.Username))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(user)
}
