// Package apierr writes the JSON error responses for the API and logs
// server-side failures with full detail while keeping response bodies
// generic.
//
// Taxonomy:
//   - Unauthorized: no/invalid session (401)
//   - BadRequest: malformed or missing input; message is the first
//     violated constraint (400)
//   - Conflict: duplicate unique field (400)
//   - NotFound: referenced entity absent (404)
//   - Forbidden: authenticated but not authorized (403)
//   - Internal: unexpected/persistence failure (500, generic message out)
package apierr

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/system/requestid"
	"go.uber.org/zap"
)

// Logger writes error responses and records server errors.
type Logger struct {
	log *zap.Logger
}

// NewLogger constructs a Logger.
func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

type errBody struct {
	Error string `json:"error"`
}

func write(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errBody{Error: msg})
}

// Unauthorized responds 401 for unauthenticated callers.
func (l *Logger) Unauthorized(w http.ResponseWriter, r *http.Request) {
	write(w, http.StatusUnauthorized, "Unauthorized")
}

// BadRequest responds 400 with the first violated constraint's message.
func (l *Logger) BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	write(w, http.StatusBadRequest, msg)
}

// Conflict responds 400 for duplicate unique fields.
func (l *Logger) Conflict(w http.ResponseWriter, r *http.Request, msg string) {
	write(w, http.StatusBadRequest, msg)
}

// NotFound responds 404.
func (l *Logger) NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	write(w, http.StatusNotFound, msg)
}

// Forbidden responds 403.
func (l *Logger) Forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	write(w, http.StatusForbidden, msg)
}

// Internal logs the failure with full detail and responds 500 with a
// generic message.
func (l *Logger) Internal(w http.ResponseWriter, r *http.Request, op string, err error, msg string) {
	l.log.Error("server error",
		zap.String("op", op),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestid.FromContext(r.Context())),
		zap.Error(err),
	)
	write(w, http.StatusInternalServerError, msg)
}
