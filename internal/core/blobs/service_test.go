package blobs

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory ObjectStore used for service tests
type memoryStore struct {
	objects   map[string]Object
	putErr    error
	deleteErr error
	mu        sync.Mutex
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string]Object)}
}

func (m *memoryStore) Put(_ context.Context, name string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[name] = Object{Name: name, Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

func (m *memoryStore) Get(_ context.Context, name string) (*Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[name]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return &obj, nil
}

func (m *memoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.objects[name]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, name)
	return nil
}

var audioURLPattern = regexp.MustCompile(`^https://echo\.example/audio/voice_[0-9a-f-]{36}\.(mp3|wav)$`)

func TestBlobService_UploadOpenDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := NewBlobService(store, "https://echo.example/", 0, nil)

	url, err := svc.Upload(ctx, []byte("ID3-audio"), "audio/mpeg")
	require.NoError(t, err)
	assert.Regexp(t, audioURLPattern, url)

	name := NameFromURL(url)
	obj, err := svc.Open(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-audio"), obj.Data)
	assert.Equal(t, "audio/mpeg", obj.ContentType)

	svc.Delete(ctx, url)
	_, err = svc.Open(ctx, name)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestBlobService_UniqueNames(t *testing.T) {
	svc := NewBlobService(newMemoryStore(), "https://echo.example", 0, nil)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		url, err := svc.Upload(context.Background(), []byte{1}, "audio/wav")
		require.NoError(t, err)
		assert.False(t, seen[url], "duplicate object url %s", url)
		seen[url] = true
	}
}

func TestBlobService_UploadErrors(t *testing.T) {
	store := newMemoryStore()
	svc := NewBlobService(store, "https://echo.example", 0, nil)

	_, err := svc.Upload(context.Background(), nil, "audio/mpeg")
	assert.ErrorIs(t, err, ErrEmptyData)
	assert.True(t, IsStorageError(err))

	store.putErr = errors.New("bucket offline")
	_, err = svc.Upload(context.Background(), []byte("x"), "audio/mpeg")
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
	assert.Contains(t, err.Error(), "bucket offline")
}

func TestBlobService_DeleteSwallowsErrors(t *testing.T) {
	store := newMemoryStore()
	store.deleteErr = errors.New("permission denied")
	svc := NewBlobService(store, "https://echo.example", 0, nil)

	assert.NotPanics(t, func() {
		svc.Delete(context.Background(), "https://echo.example/audio/voice_missing.mp3")
		svc.Delete(context.Background(), "::not a url")
		svc.Delete(context.Background(), "")
	})
}

func TestBlobService_OpenRejectsTraversal(t *testing.T) {
	svc := NewBlobService(newMemoryStore(), "https://echo.example", 0, nil)

	for _, name := range []string{"", "..", "../secret", "a/b.mp3", `a\b.mp3`} {
		_, err := svc.Open(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "voice_1.mp3", NameFromURL("https://echo.example/audio/voice_1.mp3"))
	assert.Equal(t, "voice_1.mp3", NameFromURL("https://storage.example/bucket/voice_1.mp3?x=1"))
	assert.Equal(t, "", NameFromURL(""))
	assert.Equal(t, "", NameFromURL("https://echo.example/"))
}
