package post

import (
	"errors"
	"log"
	"net/http"

	"Echo/internal/api/handlers"
	"Echo/internal/core/blobs"
	"Echo/internal/core/likes"
	"Echo/internal/core/posts"
	"Echo/internal/core/speech"
)

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var valErr *posts.ValidationError

	switch {
	case errors.As(err, &valErr):
		handlers.WriteError(w, http.StatusBadRequest, "ValidationError", valErr.Message)

	case errors.Is(err, posts.ErrTranscriptionEmpty):
		handlers.WriteError(w, http.StatusBadRequest, "TranscriptionEmpty",
			"No speech detected in the audio file")

	case errors.Is(err, posts.ErrNotFound), errors.Is(err, likes.ErrPostNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "Post not found")

	case errors.Is(err, posts.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusForbidden, "NotAuthorized",
			"Not authorized to delete this post")

	case errors.Is(err, posts.ErrAuthorRequired), errors.Is(err, likes.ErrInvalidUser):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")

	case errors.Is(err, speech.ErrTranscriptionService):
		log.Printf("Transcription error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "TranscriptionFailed",
			"Error transcribing audio")

	case errors.Is(err, speech.ErrSynthesis):
		log.Printf("Synthesis error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "SynthesisFailed",
			"Error synthesizing audio")

	case blobs.IsStorageError(err):
		log.Printf("Storage error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "StorageError",
			"Error storing audio")

	default:
		log.Printf("Post handler error: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
