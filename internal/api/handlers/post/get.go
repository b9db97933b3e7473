package post

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Echo/internal/api/handlers"
	"Echo/internal/api/middleware"
	"Echo/internal/core/posts"
)

// GetHandler handles post reads
type GetHandler struct {
	service posts.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service posts.Service) *GetHandler {
	return &GetHandler{
		service: service,
	}
}

// HandleGet returns one post
// GET /posts/{id}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID, ok := parsePostID(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetPost(r.Context(), postID, middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, view)
}

// HandleList returns a page of all posts, newest first
// GET /posts?skip=0&limit=10
func (h *GetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	params, ok := parseListParams(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListPosts(r.Context(), params, middleware.GetUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, list)
}

// HandleMyPosts returns a page of the authenticated user's posts
// GET /posts/my-posts?skip=0&limit=10
func (h *GetHandler) HandleMyPosts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == 0 {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	params, ok := parseListParams(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListUserPosts(r.Context(), userID, params)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, list)
}

// parsePostID reads the {id} route parameter
func parsePostID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || postID <= 0 {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "post id must be a positive integer")
		return 0, false
	}
	return postID, true
}

// parseListParams reads skip and limit; out-of-range values are clamped by the service
func parseListParams(w http.ResponseWriter, r *http.Request) (posts.ListParams, bool) {
	var params posts.ListParams
	query := r.URL.Query()

	if raw := query.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "skip must be an integer")
			return params, false
		}
		params.Offset = skip
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "limit must be an integer")
			return params, false
		}
		if limit == 0 {
			limit = 1
		}
		params.Limit = limit
	}

	return params, true
}
