package users

import "context"

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	// Create inserts a user. Returns ErrUsernameTaken on unique violation.
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	// List returns every user ordered by id
	List(ctx context.Context) ([]*User, error)
}

// TokenIssuer signs bearer tokens for authenticated users
type TokenIssuer interface {
	Issue(user *User) (string, error)
}

// UserService defines the interface for account business logic
type UserService interface {
	// Register creates an account and returns a bearer token for it
	Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error)

	// Login verifies credentials and returns a bearer token
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)

	// GetUserByID resolves the identity carried by a bearer token
	GetUserByID(ctx context.Context, id int64) (*User, error)

	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// ListUsers returns the public profile of every account
	ListUsers(ctx context.Context) ([]*Profile, error)
}
