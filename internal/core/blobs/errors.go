package blobs

import (
	"errors"
	"fmt"
)

var (
	// ErrObjectNotFound indicates the named object does not exist in the store
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidName indicates an object name that could escape the bucket namespace
	ErrInvalidName = errors.New("invalid object name")

	// ErrEmptyData indicates an upload with no bytes
	ErrEmptyData = errors.New("data cannot be empty")
)

// StorageError wraps a failed object store operation
type StorageError struct {
	Err  error
	Op   string
	Name string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError checks if err is a storage failure
func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}
