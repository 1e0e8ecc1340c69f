package post

import (
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/core/posts"
)

// SaveHandler creates drafts or updates existing posts
type SaveHandler struct {
	service      posts.Service
	exposeDetail bool
}

// NewSaveHandler creates a new save handler
func NewSaveHandler(service posts.Service, exposeDetail bool) *SaveHandler {
	return &SaveHandler{service: service, exposeDetail: exposeDetail}
}

// HandleSave handles POST /post/save
//
// Request body: { "id": 1 | null, "title": "...", "content": "...", "is_published": bool }
// Response: 201 { "message": "Created post" } for a new draft,
// 200 { "message": "Post updated!" } when an existing post was updated
func (h *SaveHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var input postInput
	if err := handlers.DecodeBody(w, r, &input); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	outcome, err := h.service.Save(r.Context(), posts.SavePostRequest{
		ID:          input.ID,
		Title:       input.Title,
		Content:     input.Content,
		IsPublished: input.IsPublished,
	})
	if err != nil {
		handleServiceError(w, err, h.exposeDetail)
		return
	}

	if outcome == posts.SaveCreated {
		handlers.WriteMessage(w, http.StatusCreated, "Created post")
		return
	}
	handlers.WriteMessage(w, http.StatusOK, "Post updated!")
}
