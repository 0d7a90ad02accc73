// Package inputval validates user-supplied field values before they
// reach a store.
package inputval

import (
	"net/mail"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// IsValidEmail reports whether s is a plain RFC 5322 address without a
// display name.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// mail.ParseAddress accepts "Name <user@host>" forms; only the bare
	// address is valid here.
	return addr.Address == s
}

// IsValidUsername reports whether s contains only letters, numbers, and
// underscores.
func IsValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
