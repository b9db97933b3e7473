package blobs

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// ObjectStore is the narrow contract the blob service needs from a bucket
type ObjectStore interface {
	// Put writes data under name, replacing any existing object
	Put(ctx context.Context, name string, data []byte, contentType string) error

	// Get reads the named object. Returns ErrObjectNotFound if absent.
	Get(ctx context.Context, name string) (*Object, error)

	// Delete removes the named object. Returns ErrObjectNotFound if absent.
	Delete(ctx context.Context, name string) error
}

// Object is a stored blob together with its content type
type Object struct {
	ContentType string
	Name        string
	Data        []byte
}

// ValidName reports whether name is a flat object name safe to address in the bucket
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

// NameFromURL extracts the object name from a public blob URL.
// Format: {publicBaseURL}/audio/{name}
func NameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return ""
	}
	name := path.Base(u.Path)
	if !ValidName(name) {
		return ""
	}
	return name
}

// HydrateAudioURL builds the public URL for an object name
func HydrateAudioURL(publicBaseURL, name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSuffix(publicBaseURL, "/") + "/audio/" + url.PathEscape(name)
}
