package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/taskhub/internal/app/features/logout"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func TestServeLogout_ClearsCookie(t *testing.T) {
	logger := zap.NewNop()
	tokens, err := auth.NewTokenManager("logout-test-secret-0123456789abcd", "taskhub_session", 0, false, logger)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	h := logout.NewHandler(tokens, logger)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "taskhub_session" && c.MaxAge < 0 && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie not cleared")
	}
}
