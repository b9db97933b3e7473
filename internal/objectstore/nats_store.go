// Package objectstore provides a NATS JetStream implementation of blobs.ObjectStore.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"Echo/internal/core/blobs"
)

const headerContentType = "Content-Type"

// NatsObjectStore implements blobs.ObjectStore using a JetStream object store bucket
type NatsObjectStore struct {
	store  nats.ObjectStore
	bucket string
}

// New creates the bucket if needed, or binds to an existing one
func New(js nats.JetStreamContext, bucketName string) (*NatsObjectStore, error) {
	store, err := js.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Voice note audio for the %s bucket.", bucketName),
		Storage:     nats.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		if !errors.Is(err, jetstream.ErrBucketExists) && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
			return nil, fmt.Errorf("failed to create object store bucket '%s': %w", bucketName, err)
		}
		store, err = js.ObjectStore(bucketName)
		if err != nil {
			return nil, fmt.Errorf("failed to bind to existing object store bucket '%s': %w", bucketName, err)
		}
	}

	return &NatsObjectStore{
		store:  store,
		bucket: bucketName,
	}, nil
}

// Put saves an object with its content type header
func (n *NatsObjectStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	headers := nats.Header{}
	if contentType != "" {
		headers.Set(headerContentType, contentType)
	}

	_, err := n.store.Put(&nats.ObjectMeta{
		Name:    name,
		Headers: headers,
	}, bytes.NewReader(data), nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to put object '%s' to bucket '%s': %w", name, n.bucket, err)
	}

	return nil
}

// Get retrieves an object and its content type
func (n *NatsObjectStore) Get(ctx context.Context, name string) (*blobs.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obj, err := n.store.Get(name, nats.Context(ctx))
	if err != nil {
		if errors.Is(err, nats.ErrObjectNotFound) {
			return nil, blobs.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", name, n.bucket, err)
	}

	data, readErr := io.ReadAll(obj)
	closeErr := obj.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read object '%s': %w", name, readErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close object '%s': %w", name, closeErr)
	}

	result := &blobs.Object{Name: name, Data: data}
	if info, err := obj.Info(); err == nil && info.Headers != nil {
		result.ContentType = info.Headers.Get(headerContentType)
	}

	return result, nil
}

// Delete removes an object
func (n *NatsObjectStore) Delete(ctx context.Context, name string) error {
	// Delete takes no options; the context only gates the call
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := n.store.Delete(name); err != nil {
		if errors.Is(err, nats.ErrObjectNotFound) {
			return blobs.ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object '%s' from bucket '%s': %w", name, n.bucket, err)
	}

	return nil
}
