package validators

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy removes every HTML element. A bluemonday policy is safe for
// concurrent use once built.
var textPolicy = bluemonday.StrictPolicy()

// SanitizeText returns s without any markup and without surrounding
// whitespace. Entities produced by the policy are decoded back so that
// "Food & Drinks" survives unchanged.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// NormalizeEmail lowercases and trims an address so that lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
