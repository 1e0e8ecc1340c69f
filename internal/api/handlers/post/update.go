package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/core/posts"
)

// UpdateHandler rewrites an existing post. Admin only.
type UpdateHandler struct {
	service      posts.Service
	exposeDetail bool
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service posts.Service, exposeDetail bool) *UpdateHandler {
	return &UpdateHandler{service: service, exposeDetail: exposeDetail}
}

// HandleUpdate handles PUT /post/{id}
//
// Request body: { "title": "...", "content": "...", "is_published": bool }
// Response: 200 { "message": "Post updated!" }
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := posts.ValidateRawID(chi.URLParam(r, "id"))
	if err != nil {
		handleBadID(w, err)
		return
	}

	var input postInput
	if err := handlers.DecodeBody(w, r, &input); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	err = h.service.Update(r.Context(), posts.UpdatePostRequest{
		ID:          id,
		Title:       input.Title,
		Content:     input.Content,
		IsPublished: input.IsPublished,
	})
	if err != nil {
		handleServiceError(w, err, h.exposeDetail)
		return
	}

	handlers.WriteMessage(w, http.StatusOK, "Post updated!")
}
