package register_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/taskhub/internal/app/features/register"
	"github.com/dalemusser/taskhub/internal/app/system/apierr"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T) (*register.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return register.NewHandler(db, apierr.NewLogger(logger), logger), db
}

func postRegister(t *testing.T, h *register.Handler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, "POST", "/api/auth/register", body)
	rec := httptest.NewRecorder()
	h.ServeRegister(rec, req)
	return rec
}

func TestServeRegister_Success(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := postRegister(t, h, map[string]string{
		"name":     "Alice Doe",
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret1",
	})

	testutil.AssertStatus(t, rec, http.StatusCreated)
	body := rec.Body.String()

	var got models.User
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("failed to decode response %q: %v", body, err)
	}
	if got.Name != "Alice Doe" || got.Username != "alice" || got.Email != "alice@example.com" {
		t.Errorf("unexpected user in response: %+v", got)
	}
	if got.Role != models.RoleMember {
		t.Errorf("role: got %q, want %q", got.Role, models.RoleMember)
	}

	// The hash never leaves the server.
	if containsAny(body, "password_hash", "passwordHash", "$2a$", "$2b$") {
		t.Errorf("response body leaks password hash: %s", body)
	}

	// The stored hash verifies against the original password.
	var stored models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"username": "alice"}).Decode(&stored)
	if err != nil {
		t.Fatalf("failed to load stored user: %v", err)
	}
	if stored.PasswordHash == nil {
		t.Fatal("stored user has no password hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("secret1")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestServeRegister_ValidationOrder(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body map[string]string
		want string
	}{
		{
			name: "short name",
			body: map[string]string{"name": "A", "username": "alice", "email": "a@example.com", "password": "secret1"},
			want: "Name must be at least 2 characters",
		},
		{
			name: "short username",
			body: map[string]string{"name": "Alice", "username": "al", "email": "a@example.com", "password": "secret1"},
			want: "Username must be at least 3 characters",
		},
		{
			name: "bad username charset",
			body: map[string]string{"name": "Alice", "username": "alice doe", "email": "a@example.com", "password": "secret1"},
			want: "Username must contain only letters, numbers, and underscores",
		},
		{
			name: "bad email",
			body: map[string]string{"name": "Alice", "username": "alice", "email": "not-an-email", "password": "secret1"},
			want: "Invalid email address",
		},
		{
			name: "short password",
			body: map[string]string{"name": "Alice", "username": "alice", "email": "a@example.com", "password": "12345"},
			want: "Password must be at least 6 characters",
		},
		{
			name: "first violation wins",
			body: map[string]string{"name": "A", "username": "x", "email": "bad", "password": "1"},
			want: "Name must be at least 2 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postRegister(t, h, tt.body)
			testutil.AssertStatus(t, rec, http.StatusBadRequest)
			testutil.AssertErrorMessage(t, rec, tt.want)
		})
	}
}

func TestServeRegister_DuplicateEmail(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateUser(ctx, "Alice Doe", "alice", "alice@example.com", "secret1")

	rec := postRegister(t, h, map[string]string{
		"name":     "Other Alice",
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "secret1",
	})

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	testutil.AssertErrorMessage(t, rec, "User with this email already exists")
}

func TestServeRegister_DuplicateUsername(t *testing.T) {
	h, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	f.CreateUser(ctx, "Alice Doe", "alice", "alice@example.com", "secret1")

	rec := postRegister(t, h, map[string]string{
		"name":     "Other Alice",
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret1",
	})

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	testutil.AssertErrorMessage(t, rec, "User with this username already exists")
}

func TestServeRegister_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/register", nil)
	rec := httptest.NewRecorder()
	h.ServeRegister(rec, req)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
