package post

import (
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/core/posts"
)

// PublishHandler creates posts that are published immediately
type PublishHandler struct {
	service      posts.Service
	exposeDetail bool
}

// NewPublishHandler creates a new publish handler
func NewPublishHandler(service posts.Service, exposeDetail bool) *PublishHandler {
	return &PublishHandler{service: service, exposeDetail: exposeDetail}
}

// HandlePublish handles POST /post/publish
//
// Request body: { "title": "...", "content": "..." }
// Response: 201 { "message": "Created post" }
func (h *PublishHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	var input postInput
	if err := handlers.DecodeBody(w, r, &input); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	err := h.service.Publish(r.Context(), posts.PublishPostRequest{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		handleServiceError(w, err, h.exposeDetail)
		return
	}

	handlers.WriteMessage(w, http.StatusCreated, "Created post")
}
