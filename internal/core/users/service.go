package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Usernames: 3-50 chars, lowercase alphanumeric plus underscore, dot and hyphen
var usernameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{1,48}[a-z0-9]$`)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
)

type userService struct {
	userRepo UserRepository
	tokens   TokenIssuer
	logger   *slog.Logger
	cost     int
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, tokens TokenIssuer, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
		cost:     bcrypt.DefaultCost,
	}
}

// Register validates, hashes the password and creates the user
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	username := normalizeUsername(req.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var displayName *string
	if req.DisplayName != nil {
		if trimmed := strings.TrimSpace(*req.DisplayName); trimmed != "" {
			displayName = &trimmed
		}
	}

	user, err := s.userRepo.Create(ctx, &User{
		Username:       username,
		HashedPassword: string(hashed),
		DisplayName:    displayName,
		IsActive:       true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	return s.issue(user)
}

// Login verifies the password against the stored bcrypt hash
func (s *userService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	username := normalizeUsername(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		s.logger.Info("login rejected", "username", username, "reason", "password_mismatch")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return s.issue(user)
}

// GetUserByID retrieves a user by id
func (s *userService) GetUserByID(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByUsername retrieves a user by username
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = normalizeUsername(username)
	if username == "" {
		return nil, ErrUserNotFound
	}
	return s.userRepo.GetByUsername(ctx, username)
}

// ListUsers returns every account's defaulted profile
func (s *userService) ListUsers(ctx context.Context) ([]*Profile, error) {
	all, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, 0, len(all))
	for _, u := range all {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

func (s *userService) issue(user *User) (*TokenResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.Profile(),
	}, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateUsername(username string) error {
	if username == "" {
		return &InvalidUsernameError{Username: username, Reason: "username is required"}
	}
	if len(username) < 3 || len(username) > 50 {
		return &InvalidUsernameError{Username: username, Reason: "must be between 3 and 50 characters"}
	}
	if !usernameRegex.MatchString(username) {
		return &InvalidUsernameError{
			Username: username,
			Reason:   "may contain only letters, digits, '.', '_' and '-', and must start and end with a letter or digit",
		}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return &WeakPasswordError{Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	if len(password) > maxPasswordLength {
		return &WeakPasswordError{Reason: fmt.Sprintf("must be at most %d bytes", maxPasswordLength)}
	}
	return nil
}
