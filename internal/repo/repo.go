// internal/repo/repo.go
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tack/internal/commit"
	"tack/internal/config"
	"tack/internal/index"
	"tack/internal/object"
)

var ErrNotInitialized = errors.New("not a tack repository (run \"tack init\")")

// Repository is the explicit context every operation runs against. All
// paths derive from its Layout; nothing consults globals or environment
// variables.
type Repository struct {
	Root    string
	WorkDir string // directory the repository was opened from
	Layout  config.Layout
	Objects *object.Store
	Index   *index.File
	Chain   *commit.Chain
	Logger  *zap.Logger
}

// Init creates the repository skeleton under root: the repo dir, an empty
// objects dir, an empty HEAD, and an index holding no entries. Running it
// on an already initialized root is a no-op.
func Init(root string) error {
	layout := config.Layout{Root: root}

	if _, err := os.Stat(layout.RepoDir()); err == nil {
		return nil
	}

	if err := os.MkdirAll(layout.ObjectsDir(), 0755); err != nil {
		return fmt.Errorf("creating objects directory: %w", err)
	}

	if err := os.WriteFile(layout.HeadFile(), nil, 0644); err != nil {
		return fmt.Errorf("creating HEAD: %w", err)
	}

	if err := index.New(layout.IndexFile()).Clear(); err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	return nil
}

// FindRoot walks up from startDir looking for the repository directory.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, config.RepoDirName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrNotInitialized
}

// Open locates the repository containing startDir and wires up its
// components. Relative paths handed to operations like Add resolve against
// startDir, so opening from a nested directory behaves like running the
// tool there.
func Open(startDir string, settings config.Settings, logger *zap.Logger) (*Repository, error) {
	workDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	root, err := FindRoot(workDir)
	if err != nil {
		return nil, err
	}

	layout := config.Layout{Root: root}

	objects, err := object.NewStore(layout.ObjectsDir(), settings.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("opening object store: %w", err)
	}

	return &Repository{
		Root:    root,
		WorkDir: workDir,
		Layout:  layout,
		Objects: objects,
		Index:   index.New(layout.IndexFile()),
		Chain:   commit.NewChain(layout.HeadFile(), objects, logger),
		Logger:  logger,
	}, nil
}

// Add stores the file's current content as a blob and stages (path, digest)
// in the index, replacing any prior entry for the path.
func (r *Repository) Add(path string) (string, error) {
	relPath, err := r.relPath(path)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(filepath.Join(r.Root, relPath))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	digest, err := r.Objects.Put(content)
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", path, err)
	}

	if err := r.Index.Stage(relPath, digest); err != nil {
		return "", fmt.Errorf("staging %s: %w", path, err)
	}

	r.Logger.Debug("staged file",
		zap.String("path", relPath),
		zap.String("digest", digest))

	return digest, nil
}

// Commit snapshots the staging index into a new commit, advances HEAD, and
// clears the index. Fails with commit.ErrNoStagedChanges when nothing is
// staged, leaving HEAD and the index untouched.
func (r *Repository) Commit(message string) (string, error) {
	entries, err := r.Index.Load()
	if err != nil {
		return "", err
	}

	digest, err := r.Chain.Commit(message, entries)
	if err != nil {
		return "", err
	}

	if err := r.Index.Clear(); err != nil {
		return "", fmt.Errorf("clearing index after commit: %w", err)
	}

	return digest, nil
}

// LogEntry pairs a commit with the digest it is stored under.
type LogEntry struct {
	Digest string
	Commit *commit.Commit
}

// Log walks the chain from HEAD to the root, newest first. truncated is
// true when the walk stopped early at a missing parent object.
func (r *Repository) Log() (entries []LogEntry, truncated bool, err error) {
	head, err := r.Chain.Head()
	if err != nil {
		return nil, false, err
	}
	if head == "" {
		return nil, false, nil
	}

	walker := r.Chain.History(head)
	for {
		digest, record, err := walker.Next()
		if err != nil {
			return nil, false, err
		}
		if record == nil {
			break
		}
		entries = append(entries, LogEntry{Digest: digest, Commit: record})
	}

	return entries, walker.Truncated(), nil
}

// relPath resolves path against the directory the repository was opened
// from and returns it relative to the root. Paths escaping the working
// tree are rejected.
func (r *Repository) relPath(path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.WorkDir, path)
	}
	rel, err := filepath.Rel(r.Root, abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s relative to repository root: %w", path, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside the repository", path)
	}
	return rel, nil
}
