package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/admin"
	"Quill/internal/core/posts"
)

// RouterConfig holds the dependencies of the HTTP surface
type RouterConfig struct {
	PostService  posts.Service
	AdminService admin.Service
	Auth         *middleware.AdminAuthMiddleware

	AllowedOrigins       []string
	AllowAnonymousWrites bool
	Production           bool

	// AccessLog enables chi's request logger
	AccessLog bool
}

// NewRouter builds the complete router: global middleware, all endpoints,
// and JSON fallbacks for unknown routes and methods
func NewRouter(cfg RouterConfig) chi.Router {
	exposeDetail := !cfg.Production

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	if cfg.AccessLog {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(middleware.JSONRecoverer(exposeDetail))
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	RegisterPostRoutes(r, cfg.PostService, PostRouteOptions{
		RequireAdmin:         cfg.Auth.RequireAdmin,
		AllowAnonymousWrites: cfg.AllowAnonymousWrites,
		ExposeErrorDetail:    exposeDetail,
	})
	RegisterAdminRoutes(r, cfg.AdminService, cfg.Production, exposeDetail)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "Method not allowed")
	})

	return r
}

// corsMiddleware allows the configured front-end origins to call the API with cookies
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})
}
