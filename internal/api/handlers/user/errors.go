package user

import (
	"errors"
	"log"
	"net/http"

	"Echo/internal/api/handlers"
	"Echo/internal/core/users"
)

// handleServiceError maps account errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var usernameErr *users.InvalidUsernameError
	var passwordErr *users.WeakPasswordError

	switch {
	case errors.As(err, &usernameErr):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidUsername", usernameErr.Error())
	case errors.As(err, &passwordErr):
		handlers.WriteError(w, http.StatusBadRequest, "WeakPassword", passwordErr.Error())
	case errors.Is(err, users.ErrUsernameTaken):
		handlers.WriteError(w, http.StatusBadRequest, "UsernameTaken", "Username already registered")
	case errors.Is(err, users.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		handlers.WriteError(w, http.StatusUnauthorized, "InvalidCredentials", "Incorrect username or password")
	case errors.Is(err, users.ErrInactiveUser):
		handlers.WriteError(w, http.StatusBadRequest, "InactiveUser", "Inactive user")
	case errors.Is(err, users.ErrUserNotFound):
		handlers.WriteError(w, http.StatusNotFound, "UserNotFound", "User not found")
	default:
		log.Printf("User handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
