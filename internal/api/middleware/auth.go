package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"Quill/internal/api/handlers"
	"Quill/internal/auth"
)

// Context keys for storing admin session information
type contextKey string

const (
	AdminClaimsKey contextKey = "admin_claims"
)

// TokenCookieName is the cookie set at login and accepted in place of the Authorization header
const TokenCookieName = "token"

// TokenVerifier verifies admin session tokens
type TokenVerifier interface {
	Verify(token string) (*auth.AdminClaims, error)
}

// AdminAuthMiddleware guards privileged routes.
// The token is read from "Authorization: Bearer <token>" or, when that header
// is absent, from the token cookie.
type AdminAuthMiddleware struct {
	verifier TokenVerifier
}

// NewAdminAuthMiddleware creates a new admin auth middleware
func NewAdminAuthMiddleware(verifier TokenVerifier) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{verifier: verifier}
}

// RequireAdmin rejects the request with 401 unless it carries a valid admin token.
// On success the verified claims are injected into the request context.
func (m *AdminAuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, source, ok := extractToken(r)
		if !ok {
			writeAuthError(w, "Not authorized")
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			log.Printf("[AUTH_FAILURE] type=verification_failed source=%s ip=%s method=%s path=%s error=%v",
				source, r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), AdminClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAdminClaims extracts the verified admin claims from the request context
// Returns nil if the request did not pass RequireAdmin
func GetAdminClaims(r *http.Request) *auth.AdminClaims {
	claims, _ := r.Context().Value(AdminClaimsKey).(*auth.AdminClaims)
	return claims
}

// SetTestAdminClaims sets admin claims in the context for testing purposes
// This function should ONLY be used in tests
func SetTestAdminClaims(ctx context.Context, claims *auth.AdminClaims) context.Context {
	return context.WithValue(ctx, AdminClaimsKey, claims)
}

// extractToken returns the raw token and where it came from
func extractToken(r *http.Request) (string, string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return "", "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		return token, "header", token != ""
	}

	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", "", false
	}
	return cookie.Value, "cookie", true
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized", message)
}
