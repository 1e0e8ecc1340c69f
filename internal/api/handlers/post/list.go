package post

import (
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/core/posts"
)

// ListHandler serves the public list of published posts
type ListHandler struct {
	service      posts.Service
	exposeDetail bool
}

// NewListHandler creates a new list handler
func NewListHandler(service posts.Service, exposeDetail bool) *ListHandler {
	return &ListHandler{service: service, exposeDetail: exposeDetail}
}

// HandleList handles GET /
// Returns published posts, newest first
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListPublished(r.Context())
	if err != nil {
		handleServiceError(w, err, h.exposeDetail)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
