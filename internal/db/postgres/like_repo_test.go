package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Echo/internal/core/likes"
	"Echo/internal/core/users"
)

func TestLikeRepo_ToggleTwice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "toggle-author")
	fan := createTestUser(t, db, "toggle-fan")
	post := createTestPost(t, db, author, "hello world")

	res, err := repo.Toggle(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.TotalLikes)

	liked, err := repo.LikedPostIDs(ctx, fan.ID, []int64{post.ID})
	require.NoError(t, err)
	assert.True(t, liked[post.ID])

	res, err = repo.Toggle(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.TotalLikes)
	assert.Equal(t, 0, likeRowCount(t, db, post.ID))
}

func TestLikeRepo_ToggleMissingPost(t *testing.T) {
	db := setupTestDB(t)
	fan := createTestUser(t, db, "missing-fan")

	_, err := NewLikeRepository(db).Toggle(context.Background(), fan.ID, -1)
	assert.ErrorIs(t, err, likes.ErrPostNotFound)
}

func TestLikeRepo_ConcurrentTogglesMatchLedger(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)

	author := createTestUser(t, db, "race-author")
	post := createTestPost(t, db, author, "popular")

	const fans = 12
	fanUsers := make([]*users.User, fans)
	for i := range fans {
		fanUsers[i] = createTestUser(t, db, "race-fan-"+string(rune('a'+i)))
	}

	// even-indexed fans toggle twice, odd-indexed once
	var wg sync.WaitGroup
	for i, fan := range fanUsers {
		toggles := 1
		if i%2 == 0 {
			toggles = 2
		}
		for range toggles {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				_, err := repo.Toggle(context.Background(), userID, post.ID)
				assert.NoError(t, err)
			}(fan.ID)
		}
	}
	wg.Wait()

	var counter int
	require.NoError(t, db.QueryRow(`SELECT likes FROM posts WHERE id = $1`, post.ID).Scan(&counter))
	assert.Equal(t, fans/2, counter)
	assert.Equal(t, counter, likeRowCount(t, db, post.ID))
}

func TestLikeRepo_IncrementListens(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "listen-author")
	post := createTestPost(t, db, author, "listen to me")

	const listeners = 25
	var wg sync.WaitGroup
	for range listeners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementListens(ctx, post.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := repo.IncrementListens(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, listeners+1, count)

	_, err = repo.IncrementListens(ctx, -1)
	assert.ErrorIs(t, err, likes.ErrPostNotFound)
}

func TestLikeRepo_ReconcileCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "drift-author")
	fan := createTestUser(t, db, "drift-fan")
	post := createTestPost(t, db, author, "drifted")

	_, err := repo.Toggle(ctx, fan.ID, post.ID)
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE posts SET likes = 40 WHERE id = $1`, post.ID)
	require.NoError(t, err)

	fixed, err := repo.ReconcileCounts(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fixed, int64(1))

	var counter int
	require.NoError(t, db.QueryRow(`SELECT likes FROM posts WHERE id = $1`, post.ID).Scan(&counter))
	assert.Equal(t, 1, counter)
}
