package users

import (
	"net/url"
	"time"
)

// avatarGeneratorURL renders a deterministic placeholder avatar from a name
const avatarGeneratorURL = "https://ui-avatars.com/api/?name="

// User is an account that owns posts
type User struct {
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	DisplayName    *string   `json:"-" db:"display_name"`
	AvatarURL      *string   `json:"-" db:"avatar_url"`
	Username       string    `json:"username" db:"username"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	ID             int64     `json:"id" db:"id"`
	IsActive       bool      `json:"is_active" db:"is_active"`
}

// Profile is the public, defaulted view of a user
type Profile struct {
	CreatedAt   time.Time `json:"created_at"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	ID          int64     `json:"id"`
	IsActive    bool      `json:"is_active"`
}

// ResolveDisplayName returns the display name, falling back to the username
func ResolveDisplayName(displayName *string, username string) string {
	if displayName != nil && *displayName != "" {
		return *displayName
	}
	return username
}

// ResolveAvatarURL returns the avatar URL, falling back to a generated avatar keyed by username
func ResolveAvatarURL(avatarURL *string, username string) string {
	if avatarURL != nil && *avatarURL != "" {
		return *avatarURL
	}
	return avatarGeneratorURL + url.QueryEscape(username)
}

// Profile applies the display defaulting rules
func (u *User) Profile() *Profile {
	return &Profile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: ResolveDisplayName(u.DisplayName, u.Username),
		AvatarURL:   ResolveAvatarURL(u.AvatarURL, u.Username),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}

// RegisterRequest is the input for creating an account
type RegisterRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Username    string  `json:"username"`
	Password    string  `json:"password"`
}

// LoginRequest is the input for authenticating
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned after a successful login or registration
type TokenResponse struct {
	User        *Profile `json:"user"`
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
}
