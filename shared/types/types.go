// Entry is the unit both the staging index and commit records are built from.
package shared

// Entry maps a working-tree path to the digest of its staged content.
// The staging index and commit file lists hold these in staging order,
// with at most one entry per path.
type Entry struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// Change describes one working-tree file relative to the staging index
// and the latest commit snapshot.
type Change struct {
	Path  string `json:"path"`
	State string `json:"state"` // staged, modified, untracked, deleted
	Hash  string `json:"hash,omitempty"`
}
