// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"net/http"
	"strings"
)

// SessionUser is the request's session context: the decoded token claims,
// hydrated with fresh account data by the UserFetcher on each request.
type SessionUser struct {
	ID       string // hex ObjectID
	Name     string
	Username string
	Email    string
	Role     string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the session user and a "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a session user into the request context, bypassing
// token resolution. For handler tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
