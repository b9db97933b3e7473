package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"Echo/internal/core/posts"
	"Echo/internal/core/users"
	"Echo/internal/db/migrations"
)

// setupTestDB connects to TEST_DATABASE_URL and runs migrations.
// Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, migrations.Up(db), "Failed to run migrations")

	t.Cleanup(func() {
		cleanupTestData(t, db)
		_ = db.Close()
	})
	cleanupTestData(t, db)

	return db
}

// cleanupTestData removes rows owned by test users, in foreign key order
func cleanupTestData(t *testing.T, db *sql.DB) {
	t.Helper()

	_, err := db.Exec(`DELETE FROM post_likes WHERE post_id IN (
		SELECT p.id FROM posts p JOIN users u ON u.id = p.author_id WHERE u.username LIKE 'test-%')`)
	require.NoError(t, err, "Failed to cleanup likes")

	_, err = db.Exec(`DELETE FROM post_likes WHERE user_id IN (SELECT id FROM users WHERE username LIKE 'test-%')`)
	require.NoError(t, err, "Failed to cleanup likes")

	// posts and voice profiles cascade with their user
	_, err = db.Exec(`DELETE FROM users WHERE username LIKE 'test-%'`)
	require.NoError(t, err, "Failed to cleanup test users")
}

// createTestUser inserts a user with a test- prefixed username
func createTestUser(t *testing.T, db *sql.DB, name string) *users.User {
	t.Helper()

	user, err := NewUserRepository(db).Create(context.Background(), &users.User{
		Username:       "test-" + name,
		HashedPassword: "not-a-real-hash",
		IsActive:       true,
	})
	require.NoError(t, err, "Failed to create test user")
	return user
}

// createTestPost inserts a post authored by author
func createTestPost(t *testing.T, db *sql.DB, author *users.User, text string) *posts.Post {
	t.Helper()

	post, err := NewPostRepository(db).Create(context.Background(), &posts.Post{
		AuthorID:    author.ID,
		TextContent: text,
		VoiceStyle:  "natural",
		Tags:        []string{"daily"},
	})
	require.NoError(t, err, "Failed to create test post")
	return post
}

// likeRowCount counts the ledger rows for a post
func likeRowCount(t *testing.T, db *sql.DB, postID int64) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&n))
	return n
}
