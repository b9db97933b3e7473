package blobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"Echo/internal/core/speech/audio"
)

// DefaultUploadTimeout bounds a single object write
const DefaultUploadTimeout = 30 * time.Second

// Service defines the interface for voice-note blob operations
type Service interface {
	// Upload stores data under a fresh unique name and returns its public URL
	Upload(ctx context.Context, data []byte, contentType string) (string, error)

	// Delete removes the blob behind a public URL.
	// Best-effort: failures are logged and never returned.
	Delete(ctx context.Context, blobURL string)

	// Open reads a blob by object name for the public read path
	Open(ctx context.Context, name string) (*Object, error)
}

type blobService struct {
	store         ObjectStore
	logger        *slog.Logger
	publicBaseURL string
	uploadTimeout time.Duration
}

// NewBlobService creates a new blob service
func NewBlobService(store ObjectStore, publicBaseURL string, uploadTimeout time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if uploadTimeout <= 0 {
		uploadTimeout = DefaultUploadTimeout
	}
	return &blobService{
		store:         store,
		publicBaseURL: publicBaseURL,
		uploadTimeout: uploadTimeout,
		logger:        logger,
	}
}

// Upload writes the object as voice_<uuid>.<ext>
func (s *blobService) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", &StorageError{Op: "upload", Err: ErrEmptyData}
	}

	ext := string(audio.FormatFromContentType(contentType))
	if ext == "" {
		ext = "mp3"
	}
	name := fmt.Sprintf("voice_%s.%s", uuid.NewString(), ext)

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	if err := s.store.Put(ctx, name, data, contentType); err != nil {
		s.logger.Error("blob upload failed",
			"name", name,
			"bytes", len(data),
			"error", err)
		return "", &StorageError{Op: "upload", Name: name, Err: err}
	}

	s.logger.Info("blob uploaded", "name", name, "bytes", len(data), "content_type", contentType)

	return HydrateAudioURL(s.publicBaseURL, name), nil
}

// Delete removes the object named by the URL's last path segment
func (s *blobService) Delete(ctx context.Context, blobURL string) {
	name := NameFromURL(blobURL)
	if name == "" {
		s.logger.Warn("blob delete ignored: url has no object name", "url", blobURL)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, name); err != nil {
		// Reclaiming storage is not required for the parent operation to succeed.
		s.logger.Warn("blob delete ignored",
			"name", name,
			"not_found", errors.Is(err, ErrObjectNotFound),
			"error", err)
		return
	}

	s.logger.Info("blob deleted", "name", name)
}

// Open reads a stored blob
func (s *blobService) Open(ctx context.Context, name string) (*Object, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	obj, err := s.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, &StorageError{Op: "get", Name: name, Err: err}
	}
	if obj.ContentType == "" {
		obj.ContentType = audio.ContentType(audio.FormatFromFilename(name))
	}
	return obj, nil
}
