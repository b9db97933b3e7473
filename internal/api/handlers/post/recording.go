package post

import (
	"errors"
	"io"
	"log"
	"net/http"

	"Echo/internal/api/handlers"
	"Echo/internal/core/posts"
)

const (
	// multipartOverhead leaves room for boundaries and other fields around the file
	multipartOverhead = 1 << 20
	// multipartMemory is how much of the form is held in memory before spilling to disk
	multipartMemory = 8 << 20
)

// readRecording extracts the "file" part of a multipart upload.
// Size and format checks belong to the service; the body is capped just past
// the recording limit so an oversized file still reaches it as a validation error.
// On failure the response has been written and ok is false.
func readRecording(w http.ResponseWriter, r *http.Request) (posts.Recording, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, posts.MaxRecordingBytes+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.WriteError(w, http.StatusBadRequest, "ValidationError", "file too large; maximum size is 10MB")
			return posts.Recording{}, false
		}
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Expected multipart form with a file field")
		return posts.Recording{}, false
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Printf("Failed to remove multipart temp files: %v", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "ValidationError", "file is required")
		return posts.Recording{}, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, posts.MaxRecordingBytes+1))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Failed to read uploaded file")
		return posts.Recording{}, false
	}

	return posts.Recording{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, true
}
