package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an admin token stays valid after issuance.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrInvalidToken is returned for malformed, expired, or foreign tokens
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrSigningFailed is returned when a token cannot be issued (e.g., no secret configured)
	ErrSigningFailed = errors.New("failed to sign token")
)

// AdminData is the payload carried under the "data" claim.
type AdminData struct {
	IsAdmin bool `json:"isAdmin"`
}

// AdminClaims are the claims of an admin session token.
type AdminClaims struct {
	Data AdminData `json:"data"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 admin tokens.
// There is exactly one identity, so the only claim of interest is isAdmin.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a TokenService.
type Option func(*TokenService)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *TokenService) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service signing with the given shared secret.
func NewTokenService(secret string, opts ...Option) *TokenService {
	s := &TokenService{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a new admin token and returns it with its expiry time.
func (s *TokenService) Issue() (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("%w: signing secret not configured", ErrSigningFailed)
	}

	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	claims := &AdminClaims{
		Data: AdminData{IsAdmin: true},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// The "Bearer " prefix is tolerated.
func (s *TokenService) Verify(tokenString string) (*AdminClaims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: verification secret not configured", ErrInvalidToken)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	token, err := parser.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}

	if !claims.Data.IsAdmin {
		return nil, fmt.Errorf("%w: token does not grant admin access", ErrInvalidToken)
	}

	return claims, nil
}
