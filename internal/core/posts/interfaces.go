package posts

import (
	"context"

	"Echo/internal/core/users"
)

// Service defines the ingestion and read operations for voice notes.
// Coordinates the speech adapters, blob storage, the repository and the like ledger.
type Service interface {
	// CreateFromText synthesizes content into audio and stores the post.
	// Flow: Validate -> Synthesize -> Upload -> Persist.
	// A synthesis or upload failure still persists the post, without audio.
	CreateFromText(ctx context.Context, author *users.User, req CreateTextPostRequest) (*PostView, error)

	// CreateFromRecording transcribes an uploaded recording and stores it as a post.
	// Flow: Validate -> Stage temp file -> Transcribe -> Measure -> Upload original -> Persist.
	// Transcription and upload failures are terminal; no post is created.
	CreateFromRecording(ctx context.Context, author *users.User, rec Recording) (*PostView, error)

	// Transcribe returns the transcript of a recording without storing anything
	Transcribe(ctx context.Context, rec Recording) (string, error)

	// GetPost retrieves one post with the viewer's like state
	GetPost(ctx context.Context, postID, viewerID int64) (*PostView, error)

	// ListPosts returns a page of posts, newest first
	ListPosts(ctx context.Context, params ListParams, viewerID int64) (*PostList, error)

	// ListUserPosts returns a page of the user's own posts
	ListUserPosts(ctx context.Context, userID int64, params ListParams) (*PostList, error)

	// DeletePost removes a post owned by requesterID, its likes and, best-effort, its audio
	DeletePost(ctx context.Context, postID, requesterID int64) error
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create inserts a post and returns it with id and created_at set
	Create(ctx context.Context, post *Post) (*Post, error)

	// GetByID retrieves a post joined with its author.
	// Returns ErrNotFound when the post doesn't exist.
	GetByID(ctx context.Context, id int64) (*Post, error)

	// List returns posts ordered by created_at DESC, id DESC
	List(ctx context.Context, params ListParams) ([]*Post, error)

	// Count returns how many posts match the author filter (nil for all)
	Count(ctx context.Context, authorID *int64) (int, error)

	// Delete removes the post's likes and then the post in one transaction.
	// Returns ErrNotFound when the post doesn't exist.
	Delete(ctx context.Context, id int64) error
}

// LikeState reports which posts a viewer has liked
type LikeState interface {
	LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}
