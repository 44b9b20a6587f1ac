package repo

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/grove-vcs/grove/modules/plumbing"
)

// IndexEntry records one staged path: the blob it currently points to and
// the object type that blob was stored as (full blob, tree-delta or
// line-delta), so Status can tell a staged tree-delta apart from a blob
// without re-reading the object itself.
type IndexEntry struct {
	Path string        `toml:"path"`
	Hash plumbing.Hash `toml:"hash"`
	Type ObjectType    `toml:"type"`
	Mode uint32        `toml:"mode"`
}

// Index is the staged path -> blob mapping, persisted as <groveDir>/index.
type Index struct {
	path    string
	Entries []IndexEntry `toml:"entry"`
}

func NewIndex(groveDir string) *Index {
	return &Index{path: filepath.Join(groveDir, "index")}
}

// Load reads the index from disk. A missing index file is not an error: it
// means nothing has been staged yet.
func (idx *Index) Load() error {
	if _, err := toml.DecodeFile(idx.path, idx); err != nil {
		if os.IsNotExist(err) {
			idx.Entries = nil
			return nil
		}
		return err
	}
	return nil
}

// Save persists the index, sorted by path for deterministic output.
func (idx *Index) Save() error {
	sort.Slice(idx.Entries, func(i, j int) bool {
		return idx.Entries[i].Path < idx.Entries[j].Path
	})

	fd, err := os.Create(idx.path)
	if err != nil {
		return err
	}
	defer fd.Close()

	return toml.NewEncoder(fd).Encode(idx)
}

// Get returns the entry staged for path, if any.
func (idx *Index) Get(path string) (IndexEntry, bool) {
	for _, e := range idx.Entries {
		if e.Path == path {
			return e, true
		}
	}
	return IndexEntry{}, false
}

// Put stages or updates the entry for path.
func (idx *Index) Put(e IndexEntry) {
	for i := range idx.Entries {
		if idx.Entries[i].Path == e.Path {
			idx.Entries[i] = e
			return
		}
	}
	idx.Entries = append(idx.Entries, e)
}

// Remove unstages path, reporting whether it had been staged.
func (idx *Index) Remove(path string) bool {
	for i := range idx.Entries {
		if idx.Entries[i].Path == path {
			idx.Entries = append(idx.Entries[:i], idx.Entries[i+1:]...)
			return true
		}
	}
	return false
}
