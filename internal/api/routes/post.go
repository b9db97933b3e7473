package routes

import (
	"github.com/go-chi/chi/v5"

	"Echo/internal/api/handlers/post"
	"Echo/internal/api/middleware"
	"Echo/internal/core/likes"
	"Echo/internal/core/posts"
)

// RegisterPostRoutes registers voice note endpoints on the router
func RegisterPostRoutes(r chi.Router, service posts.Service, likeService likes.Service, authMiddleware *middleware.BearerAuthMiddleware) {
	createHandler := post.NewCreateHandler(service)
	getHandler := post.NewGetHandler(service)
	deleteHandler := post.NewDeleteHandler(service)
	engagementHandler := post.NewEngagementHandler(likeService)

	r.Route("/posts", func(r chi.Router) {
		// Listening is anonymous; only the global rate limit applies
		r.With(authMiddleware.OptionalAuth).Post("/{id}/listen", engagementHandler.HandleListen)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Post("/", createHandler.HandleCreate)
			r.Post("/from-recording", createHandler.HandleCreateFromRecording)
			r.Post("/transcribe", createHandler.HandleTranscribe)

			r.Get("/", getHandler.HandleList)
			r.Get("/my-posts", getHandler.HandleMyPosts)
			r.Get("/{id}", getHandler.HandleGet)

			r.Post("/{id}/like", engagementHandler.HandleToggleLike)
			r.Delete("/{id}", deleteHandler.HandleDelete)
		})
	})
}
