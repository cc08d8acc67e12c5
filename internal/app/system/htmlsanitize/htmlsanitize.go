// Package htmlsanitize strips markup from user-supplied free text before it
// is stored. Request titles, descriptions and chat messages are plain text;
// clients render them escaped.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes every HTML element and attribute from s, keeps the
// text content, and trims surrounding whitespace. Entities are decoded so
// "Fish &amp; chips" is stored as "Fish & chips".
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// PlainTextPtr applies PlainText to a present optional field.
func PlainTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := PlainText(*s)
	return &v
}
