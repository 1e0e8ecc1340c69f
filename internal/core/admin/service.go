package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"Quill/internal/core/sanitize"
)

const (
	minUsernameLength = 4
	minPasswordLength = 8
)

// TokenIssuer signs admin session tokens
type TokenIssuer interface {
	Issue() (string, time.Time, error)
}

// LoginRequest is the body of POST /admin
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the result of a successful login
type Session struct {
	ExpiresAt time.Time
	Token     string
}

// Service authenticates the single configured admin
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*Session, error)
}

type adminService struct {
	tokens   TokenIssuer
	username string
	password string
}

// NewAdminService creates the login service for the configured identity
func NewAdminService(username, password string, tokens TokenIssuer) Service {
	return &adminService{
		tokens:   tokens,
		username: username,
		password: password,
	}
}

// Login validates the submitted credentials and issues a session token
func (s *adminService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	username, password, err := validateCredentials(req)
	if err != nil {
		return nil, err
	}

	// Both comparisons always run so timing does not reveal which field matched
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenIssue, err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

func validateCredentials(req LoginRequest) (string, string, error) {
	verr := &ValidationError{}

	username, ok := sanitize.Field(req.Username, minUsernameLength)
	if !ok {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   "username",
			Message: "Username should be a minimum of 4 characters",
		})
	}

	password, ok := sanitize.Field(req.Password, minPasswordLength)
	if !ok {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   "password",
			Message: "Password should be a minimum of 8 characters",
		})
	}

	if len(verr.Fields) > 0 {
		return "", "", verr
	}
	return username, password, nil
}
