// internal/app/system/auth/token.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims is the signed payload of a session token: the user id and role,
// plus standard expiry metadata.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// UserFetcher loads fresh user data for a token's user id on each request.
// Implementations return nil if the user no longer exists (or on any
// error), which makes the request anonymous.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// TokenManager issues and resolves signed session tokens. There is no
// server-side session store: a token is valid until it expires, and
// revocation before expiry is not possible.
//
// The manager is stateless after construction and safe for concurrent use.
type TokenManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	log        *zap.Logger
	fetcher    UserFetcher
}

// NewTokenManager builds a TokenManager from process-wide configuration.
// The signing secret must be at least 32 characters outside of dev.
func NewTokenManager(secret, cookieName string, ttl time.Duration, secure bool, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("session secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if cookieName == "" {
		cookieName = "taskhub_session"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
		log:        logger,
	}, nil
}

// SetUserFetcher installs the fetcher used by LoadSessionUser to hydrate
// fresh user data. Role changes and deleted accounts then take effect on
// the next request rather than at token expiry.
func (m *TokenManager) SetUserFetcher(f UserFetcher) { m.fetcher = f }

// Issue mints a signed session token for a verified identity.
func (m *TokenManager) Issue(userID, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ErrInvalidToken is returned by Resolve for any token that fails
// signature or expiry checks. Causes are deliberately not distinguished.
var ErrInvalidToken = errors.New("invalid token")

// Resolve verifies a token's signature and expiry and returns its claims.
func (m *TokenManager) Resolve(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SetCookie writes the session token as an HttpOnly cookie.
func (m *TokenManager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *TokenManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// tokenFromRequest pulls the session token from the cookie or, for API
// clients, from an Authorization: Bearer header.
func (m *TokenManager) tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// LoadSessionUser resolves the request's session token and injects the
// session user into context. A missing or invalid token leaves the
// request anonymous; it is never an error at this layer.
func (m *TokenManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := m.tokenFromRequest(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.Resolve(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if m.fetcher != nil {
			if u := m.fetcher.FetchUser(r.Context(), claims.UserID); u != nil {
				r = withUser(r, u)
			}
			next.ServeHTTP(w, r)
			return
		}

		r = withUser(r, &SessionUser{ID: claims.UserID, Role: claims.Role})
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser). HTML callers are redirected to /login with a return
// URL; API callers get a 401 JSON body.
func (m *TokenManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			ret := url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
	})
}
