package commit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tack/internal/object"
	shared "tack/shared/types"
)

func newTestChain(t *testing.T) (*Chain, *object.Store, string) {
	dir := t.TempDir()
	objectsDir := filepath.Join(dir, "objects")
	headPath := filepath.Join(dir, "HEAD")

	store, err := object.NewStore(objectsDir, 16)
	require.NoError(t, err)

	return NewChain(headPath, store, zap.NewNop()), store, objectsDir
}

func TestHeadEmpty(t *testing.T) {
	chain, _, _ := newTestChain(t)

	t.Run("missing file", func(t *testing.T) {
		head, err := chain.Head()
		require.NoError(t, err)
		assert.Empty(t, head)
	})

	t.Run("empty file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(chain.headPath, nil, 0644))
		head, err := chain.Head()
		require.NoError(t, err)
		assert.Empty(t, head)
	})
}

func TestCommitEmptyIndexGuard(t *testing.T) {
	chain, _, _ := newTestChain(t)

	_, err := chain.Commit("nothing staged", nil)
	assert.ErrorIs(t, err, ErrNoStagedChanges)

	// The guard fires before any write: HEAD stays absent.
	head, err := chain.Head()
	require.NoError(t, err)
	assert.Empty(t, head)
}

func TestCommitAdvancesHead(t *testing.T) {
	chain, _, _ := newTestChain(t)

	first, err := chain.Commit("first", []shared.Entry{{Path: "a.txt", Hash: "h1"}})
	require.NoError(t, err)

	head, err := chain.Head()
	require.NoError(t, err)
	assert.Equal(t, first, head)

	second, err := chain.Commit("second", []shared.Entry{{Path: "a.txt", Hash: "h2"}})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	record, err := chain.Get(second)
	require.NoError(t, err)
	assert.Equal(t, first, record.Parent)
	assert.Equal(t, "second", record.Message)
	assert.False(t, record.IsRoot())

	root, err := chain.Get(first)
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
}

func TestGetNotFound(t *testing.T) {
	chain, _, _ := newTestChain(t)

	_, err := chain.Get(object.Hash([]byte("no such commit")))
	assert.ErrorIs(t, err, ErrCommitNotFound)
}

func TestHistoryYieldsAllCommits(t *testing.T) {
	chain, _, _ := newTestChain(t)

	var digests []string
	for _, msg := range []string{"one", "two", "three"} {
		d, err := chain.Commit(msg, []shared.Entry{{Path: "f", Hash: "h-" + msg}})
		require.NoError(t, err)
		digests = append(digests, d)
	}

	head, err := chain.Head()
	require.NoError(t, err)

	walker := chain.History(head)
	var messages []string
	for {
		_, record, err := walker.Next()
		require.NoError(t, err)
		if record == nil {
			break
		}
		messages = append(messages, record.Message)
	}

	assert.Equal(t, []string{"three", "two", "one"}, messages)
	assert.False(t, walker.Truncated())
}

func TestHistoryStartNotFound(t *testing.T) {
	chain, _, _ := newTestChain(t)

	walker := chain.History(object.Hash([]byte("missing")))
	_, _, err := walker.Next()
	assert.ErrorIs(t, err, ErrCommitNotFound)
}

func TestHistoryTruncatesAtMissingParent(t *testing.T) {
	chain, _, objectsDir := newTestChain(t)

	first, err := chain.Commit("first", []shared.Entry{{Path: "f", Hash: "h1"}})
	require.NoError(t, err)
	second, err := chain.Commit("second", []shared.Entry{{Path: "f", Hash: "h2"}})
	require.NoError(t, err)

	// Purge the root commit object, leaving the child's parent pointer
	// dangling.
	require.NoError(t, os.Remove(filepath.Join(objectsDir, first)))

	// A fresh chain avoids the object cache.
	store, err := object.NewStore(objectsDir, 16)
	require.NoError(t, err)
	fresh := NewChain(chain.headPath, store, zap.NewNop())

	walker := fresh.History(second)

	digest, record, err := walker.Next()
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, second, digest)

	_, record, err = walker.Next()
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.True(t, walker.Truncated())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	record := &Commit{
		Version: SchemaVersion,
		Message: "snapshot",
		Files:   []shared.Entry{{Path: "a.txt", Hash: "h1"}},
		Parent:  "",
	}

	data, err := record.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, record.Message, decoded.Message)
	assert.Equal(t, record.Files, decoded.Files)
	assert.True(t, decoded.IsRoot())
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version":99,"message":"x"}`))
	assert.ErrorContains(t, err, "unsupported schema version")
}

func TestEntryLookup(t *testing.T) {
	record := &Commit{Files: []shared.Entry{
		{Path: "a.txt", Hash: "h1"},
		{Path: "b.txt", Hash: "h2"},
	}}

	entry, ok := record.Entry("b.txt")
	require.True(t, ok)
	assert.Equal(t, "h2", entry.Hash)

	_, ok = record.Entry("missing.txt")
	assert.False(t, ok)
}
