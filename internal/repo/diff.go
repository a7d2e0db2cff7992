// internal/repo/diff.go
package repo

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tack/internal/commit"
	"tack/internal/diff"
	"tack/internal/object"
)

// FileStatus classifies how a file in the diffed commit relates to its
// parent commit.
type FileStatus int

const (
	// FileChanged means both versions were loaded and Runs holds the diff
	// (possibly a single Equal run when the content is unchanged).
	FileChanged FileStatus = iota
	// FileNew means the path has no entry in the parent commit.
	FileNew
	// FileNoParent means the diffed commit is the root.
	FileNoParent
	// FileParentMissing means the parent commit object is absent from the
	// store.
	FileParentMissing
	// FileObjectMissing means a referenced blob is absent from the store.
	FileObjectMissing
)

// FileDiff is the per-file result of diffing a commit against its parent.
type FileDiff struct {
	Path   string
	Status FileStatus
	Runs   []diff.Run
}

// Diff loads the commit stored under digest and compares each of its files
// against the parent commit's version. Missing secondary objects (the
// parent commit, a referenced blob) degrade to per-file statuses instead of
// failing the whole operation; only an unresolvable target digest is an
// error (commit.ErrCommitNotFound).
func (r *Repository) Diff(digest string) ([]FileDiff, error) {
	target, err := r.Chain.Get(digest)
	if err != nil {
		return nil, err
	}

	if target.IsRoot() {
		diffs := make([]FileDiff, 0, len(target.Files))
		for _, entry := range target.Files {
			diffs = append(diffs, FileDiff{Path: entry.Path, Status: FileNoParent})
		}
		return diffs, nil
	}

	parent, err := r.Chain.Get(target.Parent)
	if err != nil {
		if !errors.Is(err, commit.ErrCommitNotFound) {
			return nil, err
		}
		r.Logger.Warn("parent commit object missing",
			zap.String("commit", digest),
			zap.String("parent", target.Parent))
		diffs := make([]FileDiff, 0, len(target.Files))
		for _, entry := range target.Files {
			diffs = append(diffs, FileDiff{Path: entry.Path, Status: FileParentMissing})
		}
		return diffs, nil
	}

	diffs := make([]FileDiff, 0, len(target.Files))
	for _, entry := range target.Files {
		newContent, err := r.Objects.Get(entry.Hash)
		if err != nil {
			if !errors.Is(err, object.ErrObjectMissing) {
				return nil, fmt.Errorf("loading %s: %w", entry.Path, err)
			}
			r.Logger.Warn("blob object missing",
				zap.String("path", entry.Path),
				zap.String("digest", entry.Hash))
			diffs = append(diffs, FileDiff{Path: entry.Path, Status: FileObjectMissing})
			continue
		}

		parentEntry, ok := parent.Entry(entry.Path)
		if !ok {
			diffs = append(diffs, FileDiff{Path: entry.Path, Status: FileNew})
			continue
		}

		oldContent, err := r.Objects.Get(parentEntry.Hash)
		if err != nil {
			if !errors.Is(err, object.ErrObjectMissing) {
				return nil, fmt.Errorf("loading parent version of %s: %w", entry.Path, err)
			}
			r.Logger.Warn("parent blob object missing",
				zap.String("path", entry.Path),
				zap.String("digest", parentEntry.Hash))
			diffs = append(diffs, FileDiff{Path: entry.Path, Status: FileObjectMissing})
			continue
		}

		diffs = append(diffs, FileDiff{
			Path:   entry.Path,
			Status: FileChanged,
			Runs:   diff.Render(string(oldContent), string(newContent)),
		})
	}

	return diffs, nil
}
