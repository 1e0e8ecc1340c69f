package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/core/posts"
)

// GetHandler serves a single post by id
type GetHandler struct {
	service      posts.Service
	exposeDetail bool
}

// NewGetHandler creates a new get handler
func NewGetHandler(service posts.Service, exposeDetail bool) *GetHandler {
	return &GetHandler{service: service, exposeDetail: exposeDetail}
}

// HandleGet handles GET /post/{id}
// The response is always a list: one element when found, empty otherwise (200 either way)
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := posts.ValidateRawID(chi.URLParam(r, "id"))
	if err != nil {
		handleBadID(w, err)
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, h.exposeDetail)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
