// Package htmlsanitize cleans user-supplied text before it is stored.
//
// Sanitize keeps a safe subset of HTML (for rich description fields);
// Strict strips all markup (for names, titles, and notification text).
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize returns s with unsafe HTML removed. Safe formatting tags
// (p, strong, em, lists, links with http/https hrefs) are preserved.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Strict returns s with all HTML tags removed.
func Strict(s string) string {
	return strict.Sanitize(s)
}
