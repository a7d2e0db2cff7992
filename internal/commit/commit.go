// internal/commit/commit.go
package commit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	shared "tack/shared/types"
)

// SchemaVersion tags serialized commit records. Decoding rejects unknown
// versions rather than guessing at field meanings.
const SchemaVersion = 1

var (
	ErrNoStagedChanges = errors.New("no staged changes")
	ErrCommitNotFound  = errors.New("commit not found")
)

// Commit is an immutable snapshot record. Its identity is the content hash
// of its canonical serialization; it is stored in the object store like any
// blob. Parent is the digest of the previous commit, empty for the root.
type Commit struct {
	Version   int            `json:"version"`
	Timestamp time.Time      `json:"timestamp"`
	Message   string         `json:"message"`
	Files     []shared.Entry `json:"files"`
	Parent    string         `json:"parent,omitempty"`
}

// IsRoot reports whether the commit has no parent.
func (c *Commit) IsRoot() bool {
	return c.Parent == ""
}

// Entry returns the commit's entry for path, if any.
func (c *Commit) Entry(path string) (shared.Entry, bool) {
	for _, e := range c.Files {
		if e.Path == path {
			return e, true
		}
	}
	return shared.Entry{}, false
}

// Encode produces the canonical serialization hashed for the commit's
// identity. json.Marshal emits struct fields in declaration order, so equal
// records always serialize to equal bytes.
func (c *Commit) Encode() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding commit: %w", err)
	}
	return data, nil
}

// Decode parses a stored commit record.
func Decode(data []byte) (*Commit, error) {
	var c Commit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding commit: %w", err)
	}
	if c.Version != SchemaVersion {
		return nil, fmt.Errorf("decoding commit: unsupported schema version %d", c.Version)
	}
	return &c, nil
}
