package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"Echo/internal/core/blobs"
	"Echo/internal/core/speech"
	"Echo/internal/core/speech/audio"
	"Echo/internal/core/users"
)

// Recording and content limits
const (
	MaxRecordingBytes = 10 << 20
	MaxContentLength  = 5000
)

type postService struct {
	repo        Repository
	transcriber speech.Transcriber
	synthesizer speech.Synthesizer
	blobService blobs.Service
	likes       LikeState
	pickTags    TagPicker
	logger      *slog.Logger
	tempDir     string
}

// NewPostService creates a new post service
// likes may be nil, in which case every post reads as not liked
func NewPostService(
	repo Repository,
	transcriber speech.Transcriber,
	synthesizer speech.Synthesizer,
	blobService blobs.Service,
	likes LikeState,
	pickTags TagPicker,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if pickTags == nil {
		pickTags = RandomTags(nil)
	}
	return &postService{
		repo:        repo,
		transcriber: transcriber,
		synthesizer: synthesizer,
		blobService: blobService,
		likes:       likes,
		pickTags:    pickTags,
		logger:      logger,
	}
}

// CreateFromText creates a post whose audio is synthesized from its text
func (s *postService) CreateFromText(ctx context.Context, author *users.User, req CreateTextPostRequest) (*PostView, error) {
	if author == nil {
		return nil, ErrAuthorRequired
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, NewValidationError("content", "content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, NewValidationError("content", fmt.Sprintf("content must be at most %d characters", MaxContentLength))
	}

	style := speech.NormalizeStyle(req.VoiceStyle)
	post := &Post{
		AuthorID:    author.ID,
		Author:      AuthorFromUser(author),
		TextContent: content,
		VoiceStyle:  style,
		Tags:        s.pickTags(),
	}

	synth, err := s.synthesizer.Synthesize(ctx, speech.SynthesisRequest{
		Text:     content,
		Style:    style,
		Username: author.Username,
		UserID:   author.ID,
	})
	if err != nil {
		s.logger.Warn("synthesis failed, storing post without audio",
			"user_id", author.ID,
			"cause", speech.CauseOf(err),
			"error", err)
	} else {
		url, uploadErr := s.blobService.Upload(ctx, synth.Audio, synth.ContentType)
		if uploadErr != nil {
			s.logger.Warn("synthesized audio upload failed, storing post without audio",
				"user_id", author.ID,
				"error", uploadErr)
		} else {
			post.AudioURL = &url
			post.Duration = synth.DurationSeconds
		}
	}

	return s.persist(ctx, post)
}

// CreateFromRecording creates a post from an uploaded recording and its transcript
func (s *postService) CreateFromRecording(ctx context.Context, author *users.User, rec Recording) (*PostView, error) {
	if author == nil {
		return nil, ErrAuthorRequired
	}

	format, err := validateRecording(rec)
	if err != nil {
		return nil, err
	}

	text, duration, err := s.transcribeRecording(ctx, rec, format, true)
	if err != nil {
		return nil, err
	}

	contentType := rec.ContentType
	if audio.FormatFromContentType(contentType) == "" {
		contentType = audio.ContentType(format)
	}

	url, err := s.blobService.Upload(ctx, rec.Data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store recording: %w", err)
	}

	return s.persist(ctx, &Post{
		AuthorID:    author.ID,
		Author:      AuthorFromUser(author),
		TextContent: text,
		AudioURL:    &url,
		Duration:    duration,
		VoiceStyle:  speech.StyleOriginal,
		Tags:        s.pickTags(),
	})
}

// Transcribe validates and transcribes a recording without persisting it
func (s *postService) Transcribe(ctx context.Context, rec Recording) (string, error) {
	format, err := validateRecording(rec)
	if err != nil {
		return "", err
	}

	text, _, err := s.transcribeRecording(ctx, rec, format, false)
	return text, err
}

// GetPost retrieves a post by id
func (s *postService) GetPost(ctx context.Context, postID, viewerID int64) (*PostView, error) {
	if postID <= 0 {
		return nil, ErrNotFound
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, s.wrapRepoError("get", err)
	}

	liked := s.likedSet(ctx, viewerID, []*Post{post})
	return NewPostView(post, liked[post.ID]), nil
}

// ListPosts returns a page of all posts
func (s *postService) ListPosts(ctx context.Context, params ListParams, viewerID int64) (*PostList, error) {
	params = params.Normalize()

	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, s.wrapRepoError("list", err)
	}

	total, err := s.repo.Count(ctx, params.AuthorID)
	if err != nil {
		return nil, s.wrapRepoError("count", err)
	}

	liked := s.likedSet(ctx, viewerID, list)
	views := make([]*PostView, 0, len(list))
	for _, post := range list {
		views = append(views, NewPostView(post, liked[post.ID]))
	}

	return &PostList{Posts: views, Total: total}, nil
}

// ListUserPosts returns a page of the user's own posts
func (s *postService) ListUserPosts(ctx context.Context, userID int64, params ListParams) (*PostList, error) {
	params.AuthorID = &userID
	return s.ListPosts(ctx, params, userID)
}

// DeletePost deletes a post owned by the requester
// Flow: Fetch -> Check ownership -> Delete likes and post -> Delete audio (best-effort)
func (s *postService) DeletePost(ctx context.Context, postID, requesterID int64) error {
	if postID <= 0 {
		return ErrNotFound
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return s.wrapRepoError("get", err)
	}

	if post.AuthorID != requesterID {
		s.logger.Info("post delete rejected",
			"post_id", postID,
			"requester_id", requesterID,
			"author_id", post.AuthorID)
		return ErrNotAuthorized
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return s.wrapRepoError("delete", err)
	}

	if post.AudioURL != nil && *post.AudioURL != "" {
		s.blobService.Delete(ctx, *post.AudioURL)
	}

	s.logger.Info("post deleted", "post_id", postID, "author_id", requesterID)
	return nil
}

// validateRecording runs the local checks that must pass before any external call
func validateRecording(rec Recording) (audio.Format, error) {
	format := audio.FormatFromFilename(rec.Filename)
	if !audio.IsSupported(format) {
		return "", NewValidationError("file",
			fmt.Sprintf("unsupported file type; allowed: %s", strings.Join(audio.SupportedFormats(), ", ")))
	}
	if len(rec.Data) == 0 {
		return "", NewValidationError("file", "file is empty")
	}
	if len(rec.Data) > MaxRecordingBytes {
		return "", NewValidationError("file", "file too large; maximum size is 10MB")
	}
	return format, nil
}

// transcribeRecording stages the recording in a temp file for the transcriber.
// The file is removed before returning, whatever the outcome.
func (s *postService) transcribeRecording(ctx context.Context, rec Recording, format audio.Format, measure bool) (string, float64, error) {
	path, err := s.stageRecording(rec.Data, format)
	if err != nil {
		return "", 0, err
	}
	defer s.removeStaged(path)

	text, err := s.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to transcribe recording: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", 0, ErrTranscriptionEmpty
	}

	var duration float64
	if measure {
		duration = s.measureDuration(path, format)
	}

	return text, duration, nil
}

func (s *postService) stageRecording(data []byte, format audio.Format) (string, error) {
	f, err := os.CreateTemp(s.tempDir, "recording-*."+string(format))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	path := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		s.removeStaged(path)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.removeStaged(path)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return path, nil
}

func (s *postService) removeStaged(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove temp recording", "path", path, "error", err)
	}
}

// measureDuration returns 0 when the container can't be measured
func (s *postService) measureDuration(path string, format audio.Format) float64 {
	f, err := os.Open(path)
	if err != nil {
		s.logger.Warn("failed to open recording for duration", "error", err)
		return 0
	}
	defer func() { _ = f.Close() }()

	seconds, err := audio.Duration(f, format)
	if err != nil {
		if !errors.Is(err, audio.ErrUnsupportedFormat) {
			s.logger.Warn("failed to measure recording duration", "format", format, "error", err)
		}
		return 0
	}
	return seconds
}

func (s *postService) persist(ctx context.Context, post *Post) (*PostView, error) {
	created, err := s.repo.Create(ctx, post)
	if err != nil {
		// Audio already uploaded for this post would otherwise be orphaned
		if post.AudioURL != nil {
			s.blobService.Delete(ctx, *post.AudioURL)
		}
		return nil, s.wrapRepoError("create", err)
	}

	if created.Author == nil {
		created.Author = post.Author
	}

	s.logger.Info("post created",
		"post_id", created.ID,
		"author_id", created.AuthorID,
		"voice_style", created.VoiceStyle,
		"has_audio", created.AudioURL != nil)

	return NewPostView(created, false), nil
}

func (s *postService) likedSet(ctx context.Context, viewerID int64, list []*Post) map[int64]bool {
	if s.likes == nil || viewerID <= 0 || len(list) == 0 {
		return map[int64]bool{}
	}

	ids := make([]int64, 0, len(list))
	for _, post := range list {
		ids = append(ids, post.ID)
	}

	liked, err := s.likes.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		s.logger.Warn("failed to load like state", "viewer_id", viewerID, "error", err)
		return map[int64]bool{}
	}
	return liked
}

func (s *postService) wrapRepoError(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return &PersistenceError{Op: op, Err: err}
}
