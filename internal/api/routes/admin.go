package routes

import (
	"github.com/go-chi/chi/v5"

	adminHandlers "Quill/internal/api/handlers/admin"
	"Quill/internal/core/admin"
)

// RegisterAdminRoutes registers the admin login endpoint
// secureCookie should be true whenever the API is served over HTTPS
func RegisterAdminRoutes(r chi.Router, service admin.Service, secureCookie, exposeErrorDetail bool) {
	loginHandler := adminHandlers.NewLoginHandler(service, secureCookie, exposeErrorDetail)

	r.Post("/admin", loginHandler.HandleLogin)
}
