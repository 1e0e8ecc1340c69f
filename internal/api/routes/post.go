package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers/post"
	"Quill/internal/core/posts"
)

// PostRouteOptions controls how post routes are guarded
type PostRouteOptions struct {
	// RequireAdmin guards privileged routes
	RequireAdmin func(http.Handler) http.Handler

	// AllowAnonymousWrites leaves publish and save unguarded, matching the
	// legacy public API. Update, delete and dashboard are always guarded.
	AllowAnonymousWrites bool

	// ExposeErrorDetail echoes upstream error causes to clients
	ExposeErrorDetail bool
}

// RegisterPostRoutes registers the public and admin post endpoints on the router
func RegisterPostRoutes(r chi.Router, service posts.Service, opts PostRouteOptions) {
	listHandler := post.NewListHandler(service, opts.ExposeErrorDetail)
	getHandler := post.NewGetHandler(service, opts.ExposeErrorDetail)
	publishHandler := post.NewPublishHandler(service, opts.ExposeErrorDetail)
	saveHandler := post.NewSaveHandler(service, opts.ExposeErrorDetail)
	updateHandler := post.NewUpdateHandler(service, opts.ExposeErrorDetail)
	deleteHandler := post.NewDeleteHandler(service, opts.ExposeErrorDetail)
	dashboardHandler := post.NewDashboardHandler(service, opts.ExposeErrorDetail)

	// Public reads
	r.Get("/", listHandler.HandleList)
	r.Get("/post/{id}", getHandler.HandleGet)

	// Creation: guarded unless anonymous writes are explicitly enabled
	writes := r.With(opts.RequireAdmin)
	if opts.AllowAnonymousWrites {
		writes = r
	}
	writes.Post("/post/publish", publishHandler.HandlePublish)
	writes.Post("/post/save", saveHandler.HandleSave)

	// Admin only
	admin := r.With(opts.RequireAdmin)
	admin.Put("/post/{id}", updateHandler.HandleUpdate)
	admin.Delete("/post/{id}", deleteHandler.HandleDelete)
	admin.Get("/dashboard", dashboardHandler.HandleDashboard)
}
