package post

import (
	"log"
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/core/posts"
)

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error, exposeDetail bool) {
	if verr, ok := posts.AsValidationError(err); ok {
		handlers.WriteErrorWithDetails(w, http.StatusBadRequest, "ValidationError", "Bad request", verr.Fields)
		return
	}

	if posts.IsUpstreamError(err) {
		log.Printf("[UPSTREAM] post operation failed: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "UpstreamError",
			handlers.UpstreamMessage(err, exposeDetail))
		return
	}

	log.Printf("Unexpected error in post handler: %v", err)
	handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
}

// handleBadID writes the 400 for an unusable {id} path parameter
func handleBadID(w http.ResponseWriter, err error) {
	handleServiceError(w, err, false)
}
