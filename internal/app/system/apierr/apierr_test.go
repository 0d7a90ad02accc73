package apierr_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/taskhub/internal/app/system/apierr"
	"go.uber.org/zap"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestBadRequest(t *testing.T) {
	l := apierr.NewLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/tasks", nil)

	l.BadRequest(rec, req, "Title and project are required")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := decodeError(t, rec); got != "Title and project are required" {
		t.Errorf("error message: got %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
}

func TestConflict_Uses400(t *testing.T) {
	l := apierr.NewLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/register", nil)

	l.Conflict(rec, req, "User with this email already exists")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestInternal_GenericMessageOut(t *testing.T) {
	l := apierr.NewLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/tasks", nil)

	l.Internal(rec, req, "list tasks", errors.New("connection reset"), "Failed to fetch tasks")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	got := decodeError(t, rec)
	if got != "Failed to fetch tasks" {
		t.Errorf("error message: got %q", got)
	}
}

func TestUnauthorizedAndForbidden(t *testing.T) {
	l := apierr.NewLogger(zap.NewNop())
	req := httptest.NewRequest("GET", "/api/notifications", nil)

	rec := httptest.NewRecorder()
	l.Unauthorized(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthorized status: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	l.Forbidden(rec, req, "Access denied")
	if rec.Code != http.StatusForbidden {
		t.Errorf("forbidden status: got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "Access denied" {
		t.Errorf("forbidden message: got %q", got)
	}
}
