package likes

import "errors"

var (
	// ErrPostNotFound indicates the post being liked or listened to doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrInvalidUser indicates a toggle without an authenticated user
	ErrInvalidUser = errors.New("invalid user id")
)
