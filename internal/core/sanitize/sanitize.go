// Package sanitize holds the text normalization shared by every user-supplied field.
package sanitize

import (
	"strings"
	"unicode/utf8"
)

// htmlEscaper neutralizes the characters that matter when stored text is later
// rendered as markup. The set matches validator.js escape().
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces HTML-significant characters with entities.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// Trim removes surrounding whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// HasMinLength reports whether s has at least min characters (runes, not bytes).
func HasMinLength(s string, min int) bool {
	return utf8.RuneCountInString(s) >= min
}

// Field is the common trim -> length check -> escape chain.
// It returns the cleaned value and whether the length rule held.
func Field(raw string, min int) (string, bool) {
	trimmed := Trim(raw)
	ok := HasMinLength(trimmed, min)
	return Escape(trimmed), ok
}
