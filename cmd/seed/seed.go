package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"Echo/internal/core/likes"
	"Echo/internal/core/posts"
	"Echo/internal/core/users"
)

const seedPassword = "password123"

type seedUser struct {
	Username    string
	DisplayName string
}

type seedPost struct {
	Author     string
	Content    string
	VoiceStyle string
}

type seedLike struct {
	Username string
	// PostIndex points into seedPosts
	PostIndex int
}

var seedUsers = []seedUser{
	{Username: "demo_user", DisplayName: "Demo User"},
	{Username: "jane_doe", DisplayName: "Jane Doe"},
	{Username: "voice_master", DisplayName: "Voice Master"},
}

var seedPosts = []seedPost{
	{Author: "demo_user", Content: "Welcome to Echo! This is my first voice note.", VoiceStyle: "natural"},
	{Author: "jane_doe", Content: "Just had an amazing coffee! The weather is perfect today.", VoiceStyle: "energetic"},
	{Author: "voice_master", Content: "Some thoughts on productivity and time management.", VoiceStyle: "calm"},
	{Author: "jane_doe", Content: "Great to have you here, welcome aboard!", VoiceStyle: "natural"},
}

var seedLikes = []seedLike{
	{Username: "jane_doe", PostIndex: 0},
	{Username: "voice_master", PostIndex: 0},
	{Username: "demo_user", PostIndex: 1},
}

// Seeder creates demo accounts, posts and likes through the services
type Seeder struct {
	users  users.UserService
	posts  posts.Service
	likes  likes.Service
	logger *slog.Logger
}

// NewSeeder creates a seeder over the given services
func NewSeeder(userService users.UserService, postService posts.Service, likeService likes.Service, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		users:  userService,
		posts:  postService,
		likes:  likeService,
		logger: logger,
	}
}

// SeedResult counts what a run created
type SeedResult struct {
	Users int
	Posts int
	Likes int
}

// Run is safe to repeat: existing accounts are reused, authors who already
// have posts are skipped, and likes already present are left alone.
func (s *Seeder) Run(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}
	accounts := make(map[string]*users.User, len(seedUsers))

	for _, su := range seedUsers {
		user, created, err := s.ensureUser(ctx, su)
		if err != nil {
			return result, err
		}
		if created {
			result.Users++
		}
		accounts[su.Username] = user
	}

	postIDs := make([]int64, len(seedPosts))
	existing := make(map[string][]*posts.PostView)
	for _, su := range seedUsers {
		list, err := s.posts.ListUserPosts(ctx, accounts[su.Username].ID, posts.ListParams{Limit: posts.MaxListLimit})
		if err != nil {
			return result, fmt.Errorf("failed to list posts for %s: %w", su.Username, err)
		}
		existing[su.Username] = list.Posts
	}

	for i, sp := range seedPosts {
		if id, ok := findPost(existing[sp.Author], sp.Content); ok {
			postIDs[i] = id
			continue
		}

		view, err := s.posts.CreateFromText(ctx, accounts[sp.Author], posts.CreateTextPostRequest{
			Content:    sp.Content,
			VoiceStyle: sp.VoiceStyle,
		})
		if err != nil {
			return result, fmt.Errorf("failed to create post for %s: %w", sp.Author, err)
		}
		postIDs[i] = view.ID
		result.Posts++
		s.logger.Info("seeded post", "post_id", view.ID, "author", sp.Author, "has_audio", view.AudioURL != nil)
	}

	for _, sl := range seedLikes {
		liker := accounts[sl.Username]
		postID := postIDs[sl.PostIndex]

		liked, err := s.likes.LikedPostIDs(ctx, liker.ID, []int64{postID})
		if err != nil {
			return result, fmt.Errorf("failed to read like state: %w", err)
		}
		if liked[postID] {
			continue
		}

		if _, err := s.likes.ToggleLike(ctx, liker.ID, postID); err != nil {
			return result, fmt.Errorf("failed to like post %d as %s: %w", postID, sl.Username, err)
		}
		result.Likes++
	}

	return result, nil
}

func (s *Seeder) ensureUser(ctx context.Context, su seedUser) (*users.User, bool, error) {
	display := su.DisplayName
	_, err := s.users.Register(ctx, users.RegisterRequest{
		Username:    su.Username,
		Password:    seedPassword,
		DisplayName: &display,
	})
	created := err == nil
	if err != nil && !errors.Is(err, users.ErrUsernameTaken) {
		return nil, false, fmt.Errorf("failed to register %s: %w", su.Username, err)
	}

	user, err := s.users.GetUserByUsername(ctx, su.Username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", su.Username, err)
	}
	return user, created, nil
}

func findPost(views []*posts.PostView, content string) (int64, bool) {
	for _, v := range views {
		if v.TextContent == content {
			return v.ID, true
		}
	}
	return 0, false
}
