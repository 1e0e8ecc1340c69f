package admin

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when username or password do not match.
	// It never says which one was wrong.
	ErrInvalidCredentials = errors.New("wrong credentials")

	// ErrTokenIssue is returned when a session token could not be signed
	ErrTokenIssue = errors.New("failed to issue session token")
)

// FieldError is a single failed credential field check
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failed credential field
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("validation error (%s)", strings.Join(parts, "; "))
}

// AsValidationError extracts the validation error, if any
func AsValidationError(err error) (*ValidationError, bool) {
	var valErr *ValidationError
	ok := errors.As(err, &valErr)
	return valErr, ok
}
