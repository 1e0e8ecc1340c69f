package posts

import "Quill/internal/core/sanitize"

const (
	minTitleLength   = 4
	minContentLength = 4

	msgTitleTooShort   = "Title should be more than 4 characters"
	msgContentTooShort = "Content should be more than 4 characters"
	msgInvalidID       = "Post id must be a positive integer"
)

// cleanText trims, length-checks and escapes title and content.
// Failures are added to verr; the returned values are always escaped.
func cleanText(title, content string, verr *ValidationError) (string, string) {
	cleanTitle, ok := sanitize.Field(title, minTitleLength)
	if !ok {
		verr.Add("title", msgTitleTooShort)
	}

	cleanContent, ok := sanitize.Field(content, minContentLength)
	if !ok {
		verr.Add("content", msgContentTooShort)
	}

	return cleanTitle, cleanContent
}

// ValidateID checks that a post id taken from a path or body is usable
func ValidateID(id int64) error {
	if id <= 0 {
		return NewValidationError("id", msgInvalidID)
	}
	return nil
}

// ValidateRawID parses and validates a post id taken from a URL path
func ValidateRawID(raw string) (int64, error) {
	parsed, err := ParsePostID(raw)
	if err != nil || !parsed.Valid {
		return 0, NewValidationError("id", msgInvalidID)
	}
	return parsed.Value, nil
}
