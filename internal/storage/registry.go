package storage

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// OpenFunc builds a per-namespace value on first use
type OpenFunc[T any] func(ctx context.Context, bucket *Bucket) (T, error)

// Registry lazily opens and caches one value per namespace. Opening one
// namespace does not block lookups of another; concurrent first lookups of
// the same namespace share a single open.
type Registry[T any] struct {
	store Store
	open  OpenFunc[T]
	group singleflight.Group

	mu    sync.RWMutex
	items map[string]T
}

// NewRegistry creates a Registry backed by store
func NewRegistry[T any](store Store, open OpenFunc[T]) *Registry[T] {
	return &Registry[T]{
		store: store,
		open:  open,
		items: make(map[string]T),
	}
}

// For returns the value for namespace, opening it on first access. A failed
// open is not cached.
func (r *Registry[T]) For(ctx context.Context, namespace string) (T, error) {
	if v, ok := r.cached(namespace); ok {
		return v, nil
	}

	// the open is shared with other callers, so one caller's cancellation must not abort it
	openCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(namespace, func() (any, error) {
		if v, ok := r.cached(namespace); ok {
			return v, nil
		}

		v, err := r.open(openCtx, NewBucket(r.store, namespace))
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.items[namespace] = v
		r.mu.Unlock()
		return v, nil
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (r *Registry[T]) cached(namespace string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[namespace]
	return v, ok
}
