package post

import (
	"net/http"

	"Echo/internal/api/handlers"
	"Echo/internal/api/middleware"
	"Echo/internal/core/likes"
)

// EngagementHandler handles likes and listens
type EngagementHandler struct {
	service likes.Service
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(service likes.Service) *EngagementHandler {
	return &EngagementHandler{
		service: service,
	}
}

// HandleToggleLike likes the post, or removes the like if already present
// POST /posts/{id}/like
func (h *EngagementHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	result, err := h.service.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// HandleListen records one listen. Authentication is optional; a signed-in
// listener is attributed in the logs.
// POST /posts/{id}/listen
func (h *EngagementHandler) HandleListen(w http.ResponseWriter, r *http.Request) {
	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	result, err := h.service.IncrementListenCount(r.Context(), postID, middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
