package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"Echo/internal/core/likes"
)

type postgresLikeRepo struct {
	db *sql.DB
}

// NewLikeRepository creates a new PostgreSQL like ledger repository
func NewLikeRepository(db *sql.DB) likes.Repository {
	return &postgresLikeRepo{db: db}
}

// Toggle flips a user's like on a post inside one transaction.
// Flow: Lock post row -> Delete existing like -> Insert if nothing was deleted -> Move counter.
// The FOR UPDATE lock serializes toggles on the same post, so the
// counter always equals the number of post_likes rows at commit.
func (r *postgresLikeRepo) Toggle(ctx context.Context, userID, postID int64) (*likes.ToggleResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lockedID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&lockedID)
	if err == sql.ErrNoRows {
		return nil, likes.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock post: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete like: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check delete result: %w", err)
	}

	delta := -1
	if removed == 0 {
		delta = 1
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_likes (user_id, post_id) VALUES ($1, $2)`, userID, postID); err != nil {
			return nil, fmt.Errorf("failed to insert like: %w", err)
		}
	}

	var total int
	err = tx.QueryRowContext(ctx,
		`UPDATE posts SET likes = likes + $2 WHERE id = $1 RETURNING likes`, postID, delta,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to update like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit like toggle: %w", err)
	}

	return &likes.ToggleResult{Liked: delta > 0, TotalLikes: total}, nil
}

// IncrementListens atomically bumps the listen counter
func (r *postgresLikeRepo) IncrementListens(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`UPDATE posts SET listen_count = listen_count + 1 WHERE id = $1 RETURNING listen_count`, postID,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, likes.ErrPostNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment listen count: %w", err)
	}
	return count, nil
}

// LikedPostIDs returns which of postIDs the user has liked
func (r *postgresLikeRepo) LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool)
	if len(postIDs) == 0 {
		return liked, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id FROM post_likes WHERE user_id = $1 AND post_id = ANY($2)`,
		userID, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		liked[id] = true
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating likes: %w", err)
	}

	return liked, nil
}

// ReconcileCounts recomputes posts.likes from post_likes for every drifted post
func (r *postgresLikeRepo) ReconcileCounts(ctx context.Context) (int64, error) {
	query := `
		UPDATE posts p
		SET likes = c.actual
		FROM (
			SELECT p2.id, COUNT(pl.id)::INTEGER AS actual
			FROM posts p2
			LEFT JOIN post_likes pl ON pl.post_id = p2.id
			GROUP BY p2.id
		) c
		WHERE p.id = c.id AND p.likes <> c.actual`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile like counts: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check reconcile result: %w", err)
	}
	return updated, nil
}
