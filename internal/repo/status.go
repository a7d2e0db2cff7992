// internal/repo/status.go
package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tack/internal/config"
	"tack/internal/object"
	shared "tack/shared/types"
)

// Status compares the working tree against the staging index and the HEAD
// commit snapshot. Files that match their committed content and are not
// staged are omitted.
func (r *Repository) Status() ([]shared.Change, error) {
	staged := make(map[string]string)
	entries, err := r.Index.Load()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		staged[e.Path] = e.Hash
	}

	committed := make(map[string]string)
	head, err := r.Chain.Head()
	if err != nil {
		return nil, err
	}
	if head != "" {
		record, err := r.Chain.Get(head)
		if err != nil {
			return nil, err
		}
		for _, e := range record.Files {
			committed[e.Path] = e.Hash
		}
	}

	var changes []shared.Change
	seen := make(map[string]bool)

	err = filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(r.Root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldIgnore(relPath) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			r.Logger.Warn("skipping unreadable file",
				zap.String("path", relPath),
				zap.Error(err))
			return nil
		}

		seen[relPath] = true
		digest := object.Hash(content)

		switch {
		case staged[relPath] == digest:
			changes = append(changes, shared.Change{Path: relPath, State: "staged", Hash: digest})
		case staged[relPath] != "" || (committed[relPath] != "" && committed[relPath] != digest):
			changes = append(changes, shared.Change{Path: relPath, State: "modified", Hash: digest})
		case committed[relPath] == "":
			changes = append(changes, shared.Change{Path: relPath, State: "untracked", Hash: digest})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking working tree: %w", err)
	}

	for path := range committed {
		if !seen[path] {
			changes = append(changes, shared.Change{Path: path, State: "deleted"})
		}
	}

	return changes, nil
}

// shouldIgnore filters the repository dir, hidden files, and common build
// output from working-tree walks.
func shouldIgnore(relPath string) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	for _, part := range strings.Split(relPath, "/") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
		switch part {
		case "node_modules", "vendor", "dist", "build", config.RepoDirName:
			return true
		}
	}

	return false
}
