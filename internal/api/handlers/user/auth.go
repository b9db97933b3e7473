package user

import (
	"encoding/json"
	"mime"
	"net/http"

	"Echo/internal/api/handlers"
	"Echo/internal/api/middleware"
	"Echo/internal/core/users"
)

const maxAuthBodyBytes = 16 << 10

// AuthHandler handles registration, login and the current-user lookup
type AuthHandler struct {
	userService users.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService users.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// HandleRegister creates an account and returns a bearer token
// POST /auth/register
//
// Request body: { "username": "...", "password": "...", "display_name": "..." }
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBodyBytes)

	var req users.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	resp, err := h.userService.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// HandleLogin exchanges credentials for a bearer token
// POST /auth/login
//
// Accepts JSON { "username", "password" } or the equivalent form fields.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBodyBytes)

	var req users.LoginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid form body")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	resp, err := h.userService.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// HandleListUsers returns every account's public profile
// GET /auth/users
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) == nil {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	profiles, err := h.userService.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, profiles)
}

// HandleMe returns the authenticated user's profile
// GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, user.Profile())
}
