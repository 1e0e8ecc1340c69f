package post

import (
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/core/posts"
)

// DashboardHandler lists every post, drafts included. Admin only.
type DashboardHandler struct {
	service      posts.Service
	exposeDetail bool
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service posts.Service, exposeDetail bool) *DashboardHandler {
	return &DashboardHandler{service: service, exposeDetail: exposeDetail}
}

// HandleDashboard handles GET /dashboard
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err, h.exposeDetail)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
