package likes

import (
	"context"
	"log/slog"
)

type likeService struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new engagement ledger service
func NewService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &likeService{
		repo:   repo,
		logger: logger,
	}
}

// ToggleLike flips the like state for (userID, postID)
func (s *likeService) ToggleLike(ctx context.Context, userID, postID int64) (*ToggleResult, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	if postID <= 0 {
		return nil, ErrPostNotFound
	}

	result, err := s.repo.Toggle(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("like toggled",
		"user_id", userID,
		"post_id", postID,
		"liked", result.Liked,
		"likes", result.TotalLikes)

	return result, nil
}

// IncrementListenCount records one listen
func (s *likeService) IncrementListenCount(ctx context.Context, postID, listenerID int64) (*ListenResult, error) {
	if postID <= 0 {
		return nil, ErrPostNotFound
	}

	count, err := s.repo.IncrementListens(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("listen recorded",
		"post_id", postID,
		"listener_id", listenerID,
		"anonymous", listenerID <= 0,
		"listen_count", count)

	return &ListenResult{PostID: postID, ListenCount: count}, nil
}

// LikedPostIDs returns the viewer's like state for a page of posts.
// Anonymous viewers and empty pages short-circuit without a query.
func (s *likeService) LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	if userID <= 0 || len(postIDs) == 0 {
		return map[int64]bool{}, nil
	}
	return s.repo.LikedPostIDs(ctx, userID, postIDs)
}
