// Package repo implements the on-disk repository layout (objects, index,
// refs) that backs the grove CLI: it is the first real caller of
// modules/tdiff, storing structural diffs against a file's previous blob
// whenever modules/linguist recognizes its language and the tree pipeline
// is wired for it, and falling back to full blobs or the line pipeline
// (modules/diferenco) otherwise.
package repo

import (
	"fmt"

	"github.com/grove-vcs/grove/modules/plumbing"
)

// ObjectType tags what an object's payload decodes to, mirroring the
// teacher's own blob/tree/commit object-type enumeration.
type ObjectType uint8

const (
	ObjectBlob ObjectType = iota
	ObjectTree
	ObjectCommit
	// ObjectTreeDelta is a blob stored as a structural diff (modules/tdiff)
	// against the previous revision's blob at the same path, rather than a
	// full snapshot.
	ObjectTreeDelta
	// ObjectLineDelta is a blob stored as a line-pipeline diff
	// (modules/diferenco) against the previous revision.
	ObjectLineDelta
)

func (t ObjectType) String() string {
	switch t {
	case ObjectBlob:
		return "blob"
	case ObjectTree:
		return "tree"
	case ObjectCommit:
		return "commit"
	case ObjectTreeDelta:
		return "tree-delta"
	case ObjectLineDelta:
		return "line-delta"
	default:
		return "unknown"
	}
}

// TreeEntry is one path record inside a Tree object.
type TreeEntry struct {
	Path string        `toml:"path"`
	Hash plumbing.Hash `toml:"hash"`
	Mode uint32        `toml:"mode"`
}

// Tree is the snapshot of staged paths recorded by a commit.
type Tree struct {
	Entries []TreeEntry `toml:"entry"`
}

// Commit chains a tree snapshot to its parent, per §1's repository layout.
type Commit struct {
	Tree     plumbing.Hash `toml:"tree"`
	Parent   plumbing.Hash `toml:"parent,omitempty"`
	Author   string        `toml:"author"`
	Message  string        `toml:"message"`
	TimeUnix int64         `toml:"time"`
}

// ErrObjectNotFound reports a missing object in the store.
type ErrObjectNotFound struct {
	Hash plumbing.Hash
}

func (e *ErrObjectNotFound) Error() string {
	return fmt.Sprintf("repo: object %s not found", e.Hash.String())
}
