package likes

import "context"

// Service defines the engagement ledger operations
type Service interface {
	// ToggleLike flips the user's like on a post and returns the new state.
	// The like row and the post's likes counter change in one transaction.
	ToggleLike(ctx context.Context, userID, postID int64) (*ToggleResult, error)

	// IncrementListenCount adds one to the post's listen counter.
	// Not idempotent. listenerID is 0 for anonymous listeners and is only logged.
	IncrementListenCount(ctx context.Context, postID, listenerID int64) (*ListenResult, error)

	// LikedPostIDs reports which of postIDs the user has liked
	LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}

// Repository defines the data access interface for the like ledger
type Repository interface {
	// Toggle deletes the (user, post) like if present, inserts it otherwise,
	// and moves posts.likes by the same amount. Concurrent toggles on one
	// post are serialized by a row lock on the post.
	// Returns ErrPostNotFound when the post doesn't exist.
	Toggle(ctx context.Context, userID, postID int64) (*ToggleResult, error)

	// IncrementListens atomically adds one to posts.listen_count and returns the new value
	IncrementListens(ctx context.Context, postID int64) (int, error)

	// LikedPostIDs returns the subset of postIDs liked by userID
	LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)

	// ReconcileCounts rewrites posts.likes from the ledger rows and returns
	// how many posts were corrected
	ReconcileCounts(ctx context.Context) (int64, error)
}
