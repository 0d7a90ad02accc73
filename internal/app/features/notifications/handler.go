// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"encoding/json"
	"net/http"

	notestore "github.com/dalemusser/taskhub/internal/app/store/notifications"
	"github.com/dalemusser/taskhub/internal/app/system/apierr"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the caller's notification panel.
type Handler struct {
	Notes  *notestore.Store
	ErrLog *apierr.Logger
	Log    *zap.Logger
}

// NewHandler constructs a notifications Handler bound to a DB and logger.
func NewHandler(db *mongo.Database, errLog *apierr.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Notes:  notestore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

// ServeList handles GET /api/notifications. It returns the caller's 20
// most recent notifications, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Unauthorized(w, r)
		return
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		h.ErrLog.Unauthorized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	notes, err := h.Notes.Recent(ctx, userID)
	if err != nil {
		h.ErrLog.Internal(w, r, "notifications: list", err, "Failed to fetch notifications")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(notes)
}

type markRequest struct {
	IDs     []string `json:"ids"`
	MarkAll bool     `json:"markAll"`
}

// ServeMarkRead handles PUT /api/notifications.
//
// {"markAll": true} marks every unread notification for the caller;
// {"ids": [...]} marks the listed ones. Both are scoped to the caller,
// so IDs belonging to other users are silently ignored.
func (h *Handler) ServeMarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Unauthorized(w, r)
		return
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		h.ErrLog.Unauthorized(w, r)
		return
	}

	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, r, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	switch {
	case req.MarkAll:
		if _, err := h.Notes.MarkAllRead(ctx, userID); err != nil {
			h.ErrLog.Internal(w, r, "notifications: mark all read", err, "Failed to update notifications")
			return
		}
	case len(req.IDs) > 0:
		ids := make([]primitive.ObjectID, 0, len(req.IDs))
		for _, s := range req.IDs {
			id, err := primitive.ObjectIDFromHex(s)
			if err != nil {
				h.ErrLog.BadRequest(w, r, "Invalid notification id")
				return
			}
			ids = append(ids, id)
		}
		if _, err := h.Notes.MarkRead(ctx, userID, ids); err != nil {
			h.ErrLog.Internal(w, r, "notifications: mark read", err, "Failed to update notifications")
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
