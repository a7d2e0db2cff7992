// internal/commit/chain.go
package commit

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"tack/internal/object"
	shared "tack/shared/types"
	"tack/shared/utils"
)

// Chain owns the HEAD pointer and builds the linear commit history on top of
// the object store. HEAD is the only piece of repository state that mutates
// after initialization besides the staging index.
type Chain struct {
	headPath string
	objects  *object.Store
	logger   *zap.Logger
}

func NewChain(headPath string, objects *object.Store, logger *zap.Logger) *Chain {
	return &Chain{
		headPath: headPath,
		objects:  objects,
		logger:   logger,
	}
}

// Head returns the digest of the latest commit. A missing or empty HEAD
// file means no commits exist yet and is not an error.
func (c *Chain) Head() (string, error) {
	data, err := os.ReadFile(c.headPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Commit builds a record from the staged entries with the current HEAD as
// parent, stores it, and advances HEAD to the new digest. Fails with
// ErrNoStagedChanges before any write when entries is empty.
func (c *Chain) Commit(message string, entries []shared.Entry) (string, error) {
	if len(entries) == 0 {
		return "", ErrNoStagedChanges
	}

	parent, err := c.Head()
	if err != nil {
		return "", err
	}

	record := &Commit{
		Version:   SchemaVersion,
		Timestamp: time.Now().UTC(),
		Message:   message,
		Files:     entries,
		Parent:    parent,
	}

	data, err := record.Encode()
	if err != nil {
		return "", err
	}

	digest, err := c.objects.Put(data)
	if err != nil {
		return "", fmt.Errorf("storing commit: %w", err)
	}

	if err := utils.WriteFileAtomic(c.headPath, []byte(digest), 0644); err != nil {
		return "", fmt.Errorf("advancing HEAD: %w", err)
	}

	c.logger.Info("commit created",
		zap.String("digest", digest),
		zap.String("parent", parent),
		zap.Int("files", len(entries)))

	return digest, nil
}

// Get resolves a digest to a stored commit. A digest with no stored object
// maps to ErrCommitNotFound.
func (c *Chain) Get(digest string) (*Commit, error) {
	data, err := c.objects.Get(digest)
	if err != nil {
		if errors.Is(err, object.ErrObjectMissing) {
			return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, digest)
		}
		return nil, err
	}
	return Decode(data)
}

// History returns a lazy walker over the parent chain starting at from.
// Commits are resolved one hop at a time as Next is called.
func (c *Chain) History(from string) *Walker {
	return &Walker{
		chain: c,
		next:  from,
		seen:  make(map[string]bool),
	}
}

// Walker yields commits newest-first by following parent pointers. A missing
// object at the starting digest is an error; a missing parent object later
// in the walk is a recoverable truncation: the walk warns, stops, and
// reports Truncated rather than failing, since history beyond that point
// cannot be assumed intact.
type Walker struct {
	chain     *Chain
	next      string
	seen      map[string]bool
	started   bool
	truncated bool
}

// Next returns the next commit and its digest, or ("", nil, nil) when the
// walk has reached the root or a truncation point.
func (w *Walker) Next() (string, *Commit, error) {
	if w.next == "" || w.seen[w.next] {
		return "", nil, nil
	}

	record, err := w.chain.Get(w.next)
	if err != nil {
		if w.started && errors.Is(err, ErrCommitNotFound) {
			w.chain.logger.Warn("history truncated: parent commit object missing",
				zap.String("digest", w.next))
			w.truncated = true
			w.next = ""
			return "", nil, nil
		}
		return "", nil, err
	}

	digest := w.next
	w.seen[digest] = true
	w.started = true
	w.next = record.Parent
	return digest, record, nil
}

// Truncated reports whether the walk stopped early at a missing parent.
func (w *Walker) Truncated() bool {
	return w.truncated
}
