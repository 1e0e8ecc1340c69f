package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/core/posts"
)

// DeleteHandler removes posts. Admin only.
type DeleteHandler struct {
	service      posts.Service
	exposeDetail bool
}

// NewDeleteHandler creates a new handler for deleting posts
func NewDeleteHandler(service posts.Service, exposeDetail bool) *DeleteHandler {
	return &DeleteHandler{service: service, exposeDetail: exposeDetail}
}

// HandleDelete handles DELETE /post/{id}
// Response: 200 { "message": "Post deleted!" }
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := posts.ValidateRawID(chi.URLParam(r, "id"))
	if err != nil {
		handleBadID(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err, h.exposeDetail)
		return
	}

	handlers.WriteMessage(w, http.StatusOK, "Post deleted!")
}
