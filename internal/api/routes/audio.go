package routes

import (
	"github.com/go-chi/chi/v5"

	"Echo/internal/api/handlers/audio"
	"Echo/internal/core/blobs"
)

// RegisterAudioRoutes registers the public audio read path that audio URLs point at
func RegisterAudioRoutes(r chi.Router, blobService blobs.Service) {
	r.Get("/audio/{name}", audio.NewServeHandler(blobService).HandleServe)
}
