package audio

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"Echo/internal/api/handlers"
	"Echo/internal/core/blobs"
)

// ServeHandler streams stored voice note audio
type ServeHandler struct {
	blobService blobs.Service
}

// NewServeHandler creates a new audio handler
func NewServeHandler(blobService blobs.Service) *ServeHandler {
	return &ServeHandler{
		blobService: blobService,
	}
}

// HandleServe returns the audio object behind a public audio URL.
// Range requests are honored so players can seek.
// GET /audio/{name}
func (h *ServeHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	obj, err := h.blobService.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, blobs.ErrObjectNotFound) || errors.Is(err, blobs.ErrInvalidName) {
			handlers.WriteError(w, http.StatusNotFound, "AudioNotFound", "Audio not found")
			return
		}
		log.Printf("Audio read error for %q: %v", name, err)
		handlers.WriteError(w, http.StatusInternalServerError, "StorageError", "Error reading audio")
		return
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	// object names are unique per upload, so the bytes never change
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	http.ServeContent(w, r, obj.Name, time.Time{}, bytes.NewReader(obj.Data))
}
