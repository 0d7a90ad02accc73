// internal/app/system/auth/verify.go
package auth

import (
	"context"

	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Identity is the minimal record a successful credential check yields.
// The password hash never leaves the verifier.
type Identity struct {
	ID       string // hex ObjectID
	Username string
	Email    string
	Name     string
	Role     string
}

// CredentialSource looks up one account whose email or username equals
// the identifier. Implementations surface not-found as an error.
type CredentialSource interface {
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

// Verifier checks an identifier/password pair against stored accounts.
type Verifier struct {
	src CredentialSource
	log *zap.Logger
}

// NewVerifier constructs a Verifier.
func NewVerifier(src CredentialSource, logger *zap.Logger) *Verifier {
	return &Verifier{src: src, log: logger}
}

// Verify returns the account's identity when the identifier matches an
// account and the password matches its hash. Every failure mode — no
// such account, an externally-authenticated account with no stored hash,
// a hash mismatch, or a lookup error — yields the same (nil, false) so
// callers cannot learn which field was wrong.
func (v *Verifier) Verify(ctx context.Context, identifier, password string) (*Identity, bool) {
	u, err := v.src.GetByIdentifier(ctx, identifier)
	if err != nil {
		v.log.Debug("credential check failed: lookup", zap.String("identifier", identifier))
		return nil, false
	}
	if u.PasswordHash == nil {
		v.log.Debug("credential check failed: no password hash", zap.String("identifier", identifier))
		return nil, false
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)) != nil {
		v.log.Debug("credential check failed: password mismatch", zap.String("identifier", identifier))
		return nil, false
	}
	return &Identity{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
	}, true
}
