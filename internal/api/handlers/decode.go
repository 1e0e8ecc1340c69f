package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
)

// MaxBodyBytes caps request bodies (1MB)
const MaxBodyBytes = 1 * 1024 * 1024

var (
	// ErrBodyTooLarge is returned when the request body exceeds MaxBodyBytes
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrInvalidBody is returned when the request body cannot be decoded
	ErrInvalidBody = errors.New("invalid request body")
)

// FormDecoder is implemented by request types that can be filled from
// an application/x-www-form-urlencoded body
type FormDecoder interface {
	DecodeForm(form url.Values) error
}

// DecodeBody decodes a JSON or form-encoded body into dst.
// Form bodies require dst to implement FormDecoder.
func DecodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		fd, ok := dst.(FormDecoder)
		if !ok {
			return fmt.Errorf("%w: form bodies are not accepted here", ErrInvalidBody)
		}
		if err := r.ParseForm(); err != nil {
			return classifyBodyError(err)
		}
		if err := fd.DecodeForm(r.PostForm); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return classifyBodyError(err)
	}
	return nil
}

// WriteBodyError writes the response for a DecodeBody failure
func WriteBodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		WriteError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge", "Request body too large (max 1MB)")
		return
	}
	WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
}

func classifyBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrBodyTooLarge
	}
	return fmt.Errorf("%w: %v", ErrInvalidBody, err)
}
