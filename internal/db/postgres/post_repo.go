package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"Echo/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// selectPostWithAuthor joins the author display fields.
// LEFT JOIN keeps posts readable when the author row is gone.
const selectPostWithAuthor = `
	SELECT
		p.id, p.author_id, p.text_content, p.audio_url, p.duration,
		p.voice_style, p.tags, p.likes, p.listen_count,
		p.created_at, p.updated_at,
		u.username, u.display_name, u.avatar_url
	FROM posts p
	LEFT JOIN users u ON u.id = p.author_id`

// Create inserts a new post
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	query := `
		INSERT INTO posts (
			author_id, text_content, audio_url, duration,
			voice_style, tags
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, likes, listen_count, created_at`

	created := *post
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	err := r.db.QueryRowContext(ctx, query,
		post.AuthorID, post.TextContent, post.AudioURL, post.Duration,
		post.VoiceStyle, pq.Array(tags),
	).Scan(&created.ID, &created.Likes, &created.ListenCount, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	created.Tags = tags
	return &created, nil
}

// GetByID retrieves a post with its author fields
func (r *postgresPostRepo) GetByID(ctx context.Context, id int64) (*posts.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, selectPostWithAuthor+` WHERE p.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// List retrieves a page of posts, newest first
func (r *postgresPostRepo) List(ctx context.Context, params posts.ListParams) ([]*posts.Post, error) {
	params = params.Normalize()

	query := selectPostWithAuthor + `
		WHERE ($1::BIGINT IS NULL OR p.author_id = $1)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, params.AuthorID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]*posts.Post, 0, params.Limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return result, nil
}

// Count returns the number of posts, optionally for one author
func (r *postgresPostRepo) Count(ctx context.Context, authorID *int64) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE ($1::BIGINT IS NULL OR author_id = $1)`,
		authorID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return total, nil
}

// Delete removes a post's likes and then the post, atomically.
// The post row is locked first, the same lock Toggle takes, so no like
// can be inserted between the two deletes.
func (r *postgresPostRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lockedID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID)
	if err == sql.ErrNoRows {
		return posts.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock post: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post likes: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return posts.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post delete: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var post posts.Post
	var audioURL sql.NullString
	var updatedAt sql.NullTime
	var username, displayName, avatarURL sql.NullString

	err := row.Scan(
		&post.ID, &post.AuthorID, &post.TextContent, &audioURL, &post.Duration,
		&post.VoiceStyle, pq.Array(&post.Tags), &post.Likes, &post.ListenCount,
		&post.CreatedAt, &updatedAt,
		&username, &displayName, &avatarURL,
	)
	if err != nil {
		return nil, err
	}

	post.AudioURL = nullStringPtr(audioURL)
	if updatedAt.Valid {
		post.UpdatedAt = &updatedAt.Time
	}
	if username.Valid {
		post.Author = &posts.AuthorView{
			Username:    username.String,
			DisplayName: nullStringPtr(displayName),
			AvatarURL:   nullStringPtr(avatarURL),
		}
	}

	return &post, nil
}
