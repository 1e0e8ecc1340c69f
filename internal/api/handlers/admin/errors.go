package admin

import (
	"errors"
	"log"
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/core/admin"
)

// handleServiceError maps login errors to HTTP responses
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, exposeDetail bool) {
	if verr, ok := admin.AsValidationError(err); ok {
		handlers.WriteErrorWithDetails(w, http.StatusBadRequest, "ValidationError", "Bad request", verr.Fields)
		return
	}

	switch {
	case errors.Is(err, admin.ErrInvalidCredentials):
		log.Printf("[AUTH_FAILURE] type=bad_credentials ip=%s", r.RemoteAddr)
		handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized", "Wrong credentials")

	case errors.Is(err, admin.ErrTokenIssue):
		log.Printf("Failed to issue admin token: %v", err)
		message := "Could not issue session token"
		if exposeDetail {
			message = err.Error()
		}
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", message)

	default:
		log.Printf("Unexpected error in login handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
