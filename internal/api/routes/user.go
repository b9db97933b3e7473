package routes

import (
	"github.com/go-chi/chi/v5"

	"Echo/internal/api/handlers/user"
	"Echo/internal/api/middleware"
	"Echo/internal/core/users"
)

// RegisterUserRoutes registers account endpoints on the router
func RegisterUserRoutes(r chi.Router, service users.UserService, authMiddleware *middleware.BearerAuthMiddleware) {
	authHandler := user.NewAuthHandler(service)

	r.Post("/auth/register", authHandler.HandleRegister)
	r.Post("/auth/login", authHandler.HandleLogin)
	r.With(authMiddleware.RequireAuth).Get("/auth/me", authHandler.HandleMe)
	r.With(authMiddleware.RequireAuth).Get("/auth/users", authHandler.HandleListUsers)
}
