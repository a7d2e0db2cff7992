// internal/index/index.go
package index

import (
	"encoding/json"
	"fmt"
	"os"

	shared "tack/shared/types"
	"tack/shared/utils"
)

// schemaVersion tags the persisted index so future format changes can be
// detected instead of silently misread.
const schemaVersion = 1

type indexFile struct {
	Version int            `json:"version"`
	Entries []shared.Entry `json:"entries"`
}

// File is the staging index: an ordered list of (path, hash) entries with at
// most one entry per path, persisted between invocations.
type File struct {
	path string
}

func New(path string) *File {
	return &File{path: path}
}

// Load returns the persisted entries. A missing index, a corrupt one, or one
// with an unknown schema version all read as empty; only genuine I/O
// failures are errors.
func (f *File) Load() ([]shared.Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil
	}
	if file.Version != schemaVersion {
		return nil, nil
	}

	return file.Entries, nil
}

// Stage records digest for path. Any existing entry for the same path is
// dropped and the new entry appended, so the last staging of a path wins
// and the index never holds duplicates. Read-modify-write with no
// cross-process locking: callers must hold exclusive access to the
// repository directory.
func (f *File) Stage(path, digest string) error {
	entries, err := f.Load()
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.Path != path {
			kept = append(kept, e)
		}
	}
	kept = append(kept, shared.Entry{Path: path, Hash: digest})

	return f.save(kept)
}

// Clear persists an empty entry list. Called after a successful commit
// consumes the index.
func (f *File) Clear() error {
	return f.save([]shared.Entry{})
}

func (f *File) save(entries []shared.Entry) error {
	if entries == nil {
		entries = []shared.Entry{}
	}

	data, err := json.Marshal(indexFile{
		Version: schemaVersion,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("marshaling index: %w", err)
	}

	if err := utils.WriteFileAtomic(f.path, data, 0644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}
