package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"Quill/internal/api/handlers"
)

// JSONRecoverer turns panics into a 500 JSON error response.
// The panic value is only echoed to the client when exposeDetail is true.
func JSONRecoverer(exposeDetail bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// the server aborts the response on purpose; don't swallow it
					panic(rec)
				}

				log.Printf("[PANIC] request_id=%s method=%s path=%s panic=%v\n%s",
					chiMiddleware.GetReqID(r.Context()), r.Method, r.URL.Path, rec, debug.Stack())

				message := "An internal error occurred"
				if exposeDetail {
					message = fmt.Sprintf("%v", rec)
				}
				handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", message)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
