package posts

import (
	"time"

	"Echo/internal/core/users"
)

// UnknownAuthor is shown in place of a username when a post's author row is missing
const UnknownAuthor = "unknown"

// Post represents a voice note in the database
type Post struct {
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty" db:"updated_at"`
	AudioURL    *string     `json:"audioUrl,omitempty" db:"audio_url"`
	Author      *AuthorView `json:"-"`
	TextContent string      `json:"textContent" db:"text_content"`
	VoiceStyle  string      `json:"voiceStyle" db:"voice_style"`
	Tags        []string    `json:"tags" db:"tags"`
	ID          int64       `json:"id" db:"id"`
	AuthorID    int64       `json:"authorId" db:"author_id"`
	Duration    float64     `json:"duration" db:"duration"`
	Likes       int         `json:"likes" db:"likes"`
	ListenCount int         `json:"listenCount" db:"listen_count"`
}

// AuthorView is the raw author row joined onto a post.
// Nil pointers are defaulted when the view is built.
type AuthorView struct {
	DisplayName *string
	AvatarURL   *string
	Username    string
}

// PostView is the API representation of a post
type PostView struct {
	CreatedAt   time.Time `json:"created_at"`
	AudioURL    *string   `json:"audio_url"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	VoiceStyle  string    `json:"voice_style"`
	TextContent string    `json:"text_content"`
	Tags        []string  `json:"tags"`
	ID          int64     `json:"id"`
	Duration    float64   `json:"duration"`
	Likes       int       `json:"likes"`
	ListenCount int       `json:"listen_count"`
	IsLiked     bool      `json:"is_liked"`
}

// PostList is one page of posts plus the total matching the filter
type PostList struct {
	Posts []*PostView `json:"posts"`
	Total int         `json:"total"`
}

// NewPostView builds the API view of a post, defaulting author display fields
func NewPostView(post *Post, liked bool) *PostView {
	author := post.Author
	if author == nil || author.Username == "" {
		author = &AuthorView{Username: UnknownAuthor}
	}

	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	return &PostView{
		ID:          post.ID,
		Username:    author.Username,
		DisplayName: users.ResolveDisplayName(author.DisplayName, author.Username),
		AvatarURL:   users.ResolveAvatarURL(author.AvatarURL, author.Username),
		AudioURL:    post.AudioURL,
		Duration:    post.Duration,
		VoiceStyle:  post.VoiceStyle,
		Likes:       post.Likes,
		CreatedAt:   post.CreatedAt,
		IsLiked:     liked,
		Tags:        tags,
		TextContent: post.TextContent,
		ListenCount: post.ListenCount,
	}
}

// AuthorFromUser converts a user into the joined author fields of a post
func AuthorFromUser(u *users.User) *AuthorView {
	if u == nil {
		return nil
	}
	return &AuthorView{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// CreateTextPostRequest is the input for a synthesized post
type CreateTextPostRequest struct {
	Content    string `json:"content"`
	VoiceStyle string `json:"voice_style"`
}

// Recording is an uploaded audio file
type Recording struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Pagination bounds for list queries
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// ListParams selects a page of posts, newest first
type ListParams struct {
	AuthorID *int64
	Offset   int
	Limit    int
}

// Normalize clamps the limit to [1, MaxListLimit] and the offset to >= 0.
// A zero limit becomes DefaultListLimit.
func (p ListParams) Normalize() ListParams {
	if p.Limit == 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
