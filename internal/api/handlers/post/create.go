package post

import (
	"encoding/json"
	"mime"
	"net/http"

	"Echo/internal/api/handlers"
	"Echo/internal/api/middleware"
	"Echo/internal/core/posts"
)

// maxTextBodyBytes bounds the body of a text post request
const maxTextBodyBytes = 64 << 10

// CreateHandler handles voice note creation from text and recordings
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{
		service: service,
	}
}

// HandleCreate creates a post whose audio is synthesized from text
// POST /posts
//
// Accepts JSON { "content": "...", "voice_style": "natural" } or the same
// fields as a form submission.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTextBodyBytes)

	var req posts.CreateTextPostRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
			return
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxTextBodyBytes); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid form body")
			return
		}
		req.Content = r.FormValue("content")
		req.VoiceStyle = r.FormValue("voice_style")
	default:
		if err := r.ParseForm(); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid form body")
			return
		}
		req.Content = r.PostFormValue("content")
		req.VoiceStyle = r.PostFormValue("voice_style")
	}

	view, err := h.service.CreateFromText(r.Context(), user, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, view)
}

// HandleCreateFromRecording creates a post from an uploaded recording
// POST /posts/from-recording (multipart, field "file")
func (h *CreateHandler) HandleCreateFromRecording(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	rec, ok := readRecording(w, r)
	if !ok {
		return
	}

	view, err := h.service.CreateFromRecording(r.Context(), user, rec)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, view)
}

// HandleTranscribe returns the transcript of an uploaded recording without creating a post
// POST /posts/transcribe (multipart, field "file")
func (h *CreateHandler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	rec, ok := readRecording(w, r)
	if !ok {
		return
	}

	text, err := h.service.Transcribe(r.Context(), rec)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]string{"text": text})
}
