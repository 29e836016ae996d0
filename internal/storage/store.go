package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no value is stored under a key
	ErrNotFound = errors.New("storage: key not found")
	// ErrCorrupt is returned when a stored value is not valid JSON for the target type
	ErrCorrupt = errors.New("storage: corrupt value")
)

// Store is a string-keyed blob store partitioned by namespace (one per user).
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
}

// Bucket is a Store bound to a single namespace
type Bucket struct {
	store     Store
	namespace string
}

// NewBucket binds store to namespace
func NewBucket(store Store, namespace string) *Bucket {
	return &Bucket{store: store, namespace: namespace}
}

// Namespace returns the bound namespace
func (b *Bucket) Namespace() string {
	return b.namespace
}

// Get returns the raw value under key
func (b *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	return b.store.Get(ctx, b.namespace, key)
}

// Put replaces the value under key
func (b *Bucket) Put(ctx context.Context, key string, value []byte) error {
	return b.store.Put(ctx, b.namespace, key, value)
}

// Delete removes key entirely. Deleting a missing key is not an error.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	return b.store.Delete(ctx, b.namespace, key)
}

// GetJSON decodes the value under key into v.
// It returns ErrNotFound for a missing key and wraps ErrCorrupt for undecodable data.
func (b *Bucket) GetJSON(ctx context.Context, key string, v any) error {
	data, err := b.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

// PutJSON encodes v and stores it under key
func (b *Bucket) PutJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return b.Put(ctx, key, data)
}
