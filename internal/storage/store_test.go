package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "alice", "k", []byte("a")))
	require.NoError(t, store.Put(ctx, "bob", "k", []byte("b")))

	v, err := store.Get(ctx, "alice", "k")
	require.NoError(t, err)
	assert.Equal(t, "a", string(v))

	require.NoError(t, store.Delete(ctx, "alice", "k"))
	_, err = store.Get(ctx, "alice", "k")
	assert.ErrorIs(t, err, ErrNotFound)

	v, err = store.Get(ctx, "bob", "k")
	require.NoError(t, err)
	assert.Equal(t, "b", string(v))
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	buf := []byte("abc")
	require.NoError(t, store.Put(ctx, "ns", "k", buf))
	buf[0] = 'x'

	v, err := store.Get(ctx, "ns", "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}

func TestBucket_JSON(t *testing.T) {
	ctx := context.Background()
	b := NewBucket(NewMemoryStore(), "user-1")
	assert.Equal(t, "user-1", b.Namespace())

	var got []string
	assert.ErrorIs(t, b.GetJSON(ctx, "list", &got), ErrNotFound)

	require.NoError(t, b.PutJSON(ctx, "list", []string{"a", "b"}))
	require.NoError(t, b.GetJSON(ctx, "list", &got))
	assert.Equal(t, []string{"a", "b"}, got)

	require.NoError(t, b.Put(ctx, "list", []byte("{not json")))
	assert.ErrorIs(t, b.GetJSON(ctx, "list", &got), ErrCorrupt)
}
