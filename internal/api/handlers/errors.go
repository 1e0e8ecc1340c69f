package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the single error envelope used by every endpoint
type ErrorResponse struct {
	Details interface{} `json:"details,omitempty"`
	Error   string      `json:"error"`
	Message string      `json:"message"`
}

// WriteError writes a standardized JSON error response
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	WriteErrorWithDetails(w, statusCode, errorType, message, nil)
}

// WriteErrorWithDetails writes a JSON error response carrying extra detail,
// e.g. the list of failed fields for a validation error
func WriteErrorWithDetails(w http.ResponseWriter, statusCode int, errorType, message string, details interface{}) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   errorType,
		Message: message,
		Details: details,
	})
}

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Log encoding errors but can't send error response (headers already sent)
		log.Printf("Failed to encode response: %v", err)
	}
}

// MessageResponse is the body of successful write operations
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteMessage writes {"message": ...} with the given status
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, MessageResponse{Message: message})
}

// UpstreamMessage returns what a client may see about a data service failure.
// Outside production the underlying cause is echoed to ease debugging.
func UpstreamMessage(err error, exposeDetail bool) string {
	if exposeDetail {
		return err.Error()
	}
	return "The data service request failed"
}
