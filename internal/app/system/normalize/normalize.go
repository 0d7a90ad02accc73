// Package normalize provides canonical forms for user-supplied identity
// fields before they are stored or matched.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Username trims a username. Case is preserved: login matching is
// case-sensitive against the stored value.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Name trims a display name and collapses internal runs of whitespace
// to single spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
