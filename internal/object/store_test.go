package object

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	store, err := NewStore(filepath.Join(t.TempDir(), "objects"), 16)
	require.NoError(t, err)
	return store
}

func TestHashDeterminism(t *testing.T) {
	content := []byte("hello world\n")
	first := Hash(content)
	second := Hash(content)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, Hash([]byte("something else")))
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	digest, err := store.Put([]byte("hello"))
	require.NoError(t, err)

	content, err := store.Get(digest)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), content)
}

func TestPutIdempotent(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Put([]byte("same content"))
	require.NoError(t, err)

	second, err := store.Put([]byte("same content"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	content, err := store.Get(first)
	require.NoError(t, err)
	assert.Equal(t, []byte("same content"), content)
}

func TestPutEmptyContent(t *testing.T) {
	store := newTestStore(t)

	digest, err := store.Put(nil)
	require.NoError(t, err)

	content, err := store.Get(digest)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(Hash([]byte("never stored")))
	assert.ErrorIs(t, err, ErrObjectMissing)
}

func TestExists(t *testing.T) {
	store := newTestStore(t)

	digest, err := store.Put([]byte("here"))
	require.NoError(t, err)

	assert.True(t, store.Exists(digest))
	assert.False(t, store.Exists(Hash([]byte("not here"))))
	assert.False(t, store.Exists(""))
}

func TestGetDetectsCorruption(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "objects")
	store, err := NewStore(dir, 16)
	require.NoError(t, err)

	digest, err := store.Put([]byte("original"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, digest), []byte("tampered"), 0644))

	// A fresh store avoids the cache and reads the tampered file.
	fresh, err := NewStore(dir, 16)
	require.NoError(t, err)

	_, err = fresh.Get(digest)
	assert.ErrorContains(t, err, "hash mismatch")
}
