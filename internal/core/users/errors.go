package users

import (
	"errors"
	"fmt"
)

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when registering a username that already exists
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned for an unknown username or wrong password
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInactiveUser is returned when a deactivated account authenticates
	ErrInactiveUser = errors.New("user is inactive")
)

// InvalidUsernameError describes why a username was rejected
type InvalidUsernameError struct {
	Username string
	Reason   string
}

func (e *InvalidUsernameError) Error() string {
	return fmt.Sprintf("invalid username %q: %s", e.Username, e.Reason)
}

// WeakPasswordError describes why a password was rejected
type WeakPasswordError struct {
	Reason string
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("password does not meet strength requirements: %s", e.Reason)
}

// IsValidationError reports whether err is a user input error
func IsValidationError(err error) bool {
	var usernameErr *InvalidUsernameError
	var passwordErr *WeakPasswordError
	return errors.As(err, &usernameErr) || errors.As(err, &passwordErr)
}
