// internal/object/store.go
package object

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"tack/shared/utils"
)

var ErrObjectMissing = errors.New("object missing from store")

// Store is a content-addressable store: one file per object, named by the
// hex sha256 digest of its content. Objects are write-once; a digest that
// exists on disk is never rewritten.
type Store struct {
	dir   string
	cache *lru.Cache[string, []byte]
}

func NewStore(dir string, cacheSize int) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating object store directory: %w", err)
	}

	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating object cache: %w", err)
	}

	return &Store{
		dir:   dir,
		cache: cache,
	}, nil
}

// Hash returns the digest the store would assign to content. Pure function,
// no store access.
func Hash(content []byte) string {
	return utils.HashContent(content)
}

// Put stores content under its digest and returns the digest. Storing
// content that is already present is a no-op.
func (s *Store) Put(content []byte) (string, error) {
	if content == nil {
		content = []byte{} // empty objects are valid
	}

	digest := Hash(content)
	path := s.objectPath(digest)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := utils.WriteFileAtomic(path, content, 0644); err != nil {
			return "", fmt.Errorf("writing object %s: %w", digest, err)
		}
	}

	s.cache.Add(digest, content)
	return digest, nil
}

// Get returns the content stored under digest, or ErrObjectMissing if no
// such object exists. Content read from disk is re-hashed; a mismatch means
// the store is corrupt and is surfaced as an error rather than bad bytes.
func (s *Store) Get(digest string) ([]byte, error) {
	if content, ok := s.cache.Get(digest); ok {
		return content, nil
	}

	content, err := os.ReadFile(s.objectPath(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s: %w", digest, ErrObjectMissing)
		}
		return nil, fmt.Errorf("reading object %s: %w", digest, err)
	}

	if Hash(content) != digest {
		return nil, fmt.Errorf("object %s: content hash mismatch", digest)
	}

	s.cache.Add(digest, content)
	return content, nil
}

// Exists reports whether an object is present without reading it.
func (s *Store) Exists(digest string) bool {
	if digest == "" {
		return false
	}
	if s.cache.Contains(digest) {
		return true
	}
	_, err := os.Stat(s.objectPath(digest))
	return err == nil
}

func (s *Store) objectPath(digest string) string {
	return filepath.Join(s.dir, digest)
}
