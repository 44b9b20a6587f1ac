package repo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/grove-vcs/grove/modules/cst"
	"github.com/grove-vcs/grove/modules/grove/config"
	"github.com/grove-vcs/grove/modules/linguist"
	"github.com/grove-vcs/grove/modules/plumbing"
	"github.com/grove-vcs/grove/modules/tdiff"
	"github.com/grove-vcs/grove/modules/trace"
	"github.com/grove-vcs/grove/modules/vfs"
)

// GroveDirName is the control directory at the root of a working tree,
// the teacher's ".zeta" renamed to this project's own name.
const GroveDirName = ".grove"

const headFile = "HEAD"

// Repository binds a working tree to its control directory: the object
// store, the staging index and the ref (HEAD/tags) files.
type Repository struct {
	WorkTree string
	GroveDir string

	// wt is the work tree jailed under WorkTree: the user-supplied path
	// Add reads is resolved through it rather than a raw os.* call, so a
	// path like "../../etc/passwd" can't escape the repository root.
	// Remove only edits the index and does not touch the work tree.
	wt    vfs.VFS
	store *Store
	index *Index
	cfg   *config.Config
}

// Init creates a new repository rooted at workTree, failing if one
// already exists there.
func Init(workTree string) (*Repository, error) {
	groveDir := filepath.Join(workTree, GroveDirName)
	if _, err := os.Stat(groveDir); err == nil {
		return nil, fmt.Errorf("repo: %s already initialized", workTree)
	}
	if err := os.MkdirAll(filepath.Join(groveDir, "objects"), 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(groveDir, "refs", "tags"), 0o755); err != nil {
		return nil, err
	}

	r := &Repository{
		WorkTree: workTree,
		GroveDir: groveDir,
		wt:       vfs.NewVFS(workTree),
		store:    NewStore(groveDir),
		index:    NewIndex(groveDir),
	}
	if err := r.index.Save(); err != nil {
		return nil, err
	}
	cfg, err := config.LoadBaseline()
	if err != nil {
		return nil, err
	}
	r.cfg = cfg
	return r, nil
}

// Open loads an existing repository rooted at workTree.
func Open(workTree string) (*Repository, error) {
	groveDir := filepath.Join(workTree, GroveDirName)
	if _, err := os.Stat(groveDir); err != nil {
		return nil, fmt.Errorf("repo: %s is not a grove working tree", workTree)
	}
	r := &Repository{
		WorkTree: workTree,
		GroveDir: groveDir,
		wt:       vfs.NewVFS(workTree),
		store:    NewStore(groveDir),
		index:    NewIndex(groveDir),
	}
	if err := r.index.Load(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(groveDir)
	if err != nil {
		return nil, err
	}
	r.cfg = cfg
	return r, nil
}

func (r *Repository) headPath() string { return filepath.Join(r.GroveDir, headFile) }

// Head returns the current commit hash, or plumbing.ZeroHash before the
// first commit.
func (r *Repository) Head() (plumbing.Hash, error) {
	b, err := os.ReadFile(r.headPath())
	if err != nil {
		if os.IsNotExist(err) {
			return plumbing.ZeroHash, nil
		}
		return plumbing.ZeroHash, err
	}
	return plumbing.NewHash(string(b)), nil
}

func (r *Repository) setHead(h plumbing.Hash) error {
	return os.WriteFile(r.headPath(), []byte(h.String()), 0o644)
}

// priorBlob looks up the blob last committed at path, under the current
// HEAD's tree, along with the object type it was stored as.
func (r *Repository) priorBlob(path string) (plumbing.Hash, ObjectType, bool, error) {
	head, err := r.Head()
	if err != nil {
		return plumbing.ZeroHash, 0, false, err
	}
	if head == plumbing.ZeroHash {
		return plumbing.ZeroHash, 0, false, nil
	}
	commit, err := r.readCommit(head)
	if err != nil {
		return plumbing.ZeroHash, 0, false, err
	}
	tree, err := r.readTree(commit.Tree)
	if err != nil {
		return plumbing.ZeroHash, 0, false, err
	}
	for _, e := range tree.Entries {
		if e.Path == path {
			return e.Hash, r.entryType(e), true, nil
		}
	}
	return plumbing.ZeroHash, 0, false, nil
}

// entryType is stored alongside the tree entry's mode, packed so an
// existing Mode field can carry the object-type tag without widening the
// TOML schema: the low 24 bits are the Unix mode bits, the type lives in
// the top byte.
func (r *Repository) entryType(e TreeEntry) ObjectType {
	return ObjectType(e.Mode >> 24)
}

func packMode(mode uint32, t ObjectType) uint32 {
	return (mode & 0x00ffffff) | (uint32(t) << 24)
}

// Add stages path, choosing the tree pipeline over the line pipeline
// whenever modules/linguist recognizes the language AND a parser is
// registered for it AND the prior revision is stored as a full blob to diff
// structurally against. Any other path with a prior full blob gets a line
// delta; binary content and first revisions are stored as full blobs.
func (r *Repository) Add(path string) error {
	f, err := r.wt.Open(path)
	if err != nil {
		return err
	}
	content, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return err
	}

	det := linguist.Detect(path, content)
	prevHash, prevType, havePrev, err := r.priorBlob(path)
	if err != nil {
		return err
	}

	objType := ObjectBlob
	payload := content

	switch {
	case det.Kind == linguist.KindBinary:
		objType = ObjectBlob
	case havePrev && prevType == ObjectBlob:
		if det.Kind == linguist.KindLanguage {
			if lang, ok := linguist.LanguageByPath(path); ok {
				if parse, ok := lookupParser(lang); ok {
					if d, ok2, err := r.diffStructural(parse, prevHash, content); err != nil {
						return err
					} else if ok2 {
						objType = ObjectTreeDelta
						payload = d
					}
				}
			}
		}
		if objType == ObjectBlob {
			prevContent, err := r.store.Get(prevHash)
			if err != nil {
				return err
			}
			ops, err := computeLineDelta(context.Background(), prevContent, content)
			if err != nil {
				return trace.Errorf("repo: line delta for %s: %v", path, err)
			}
			objType = ObjectLineDelta
			payload = encodeLineDelta(ops)
		}
	}

	h, err := r.store.Put(payload)
	if err != nil {
		return err
	}

	mode := uint32(0o100644)
	if fi, err := r.wt.Stat(path); err == nil && fi.Mode()&0o111 != 0 {
		mode = 0o100755
	}
	r.index.Put(IndexEntry{Path: path, Hash: h, Type: objType, Mode: mode})
	return r.index.Save()
}

// diffStructural parses the prior and current revisions with parse and
// encodes their tdiff.Diff, reporting ok=false if either revision fails to
// parse (falling back to a line delta is the caller's responsibility). A
// failure to read the prior blob from the store is returned as an error.
func (r *Repository) diffStructural(parse ParserFunc, prevHash plumbing.Hash, next []byte) ([]byte, bool, error) {
	prevContent, err := r.store.Get(prevHash)
	if err != nil {
		return nil, false, err
	}
	prevRCST, err := parse(prevContent)
	if err != nil {
		return nil, false, nil
	}
	nextRCST, err := parse(next)
	if err != nil {
		return nil, false, nil
	}
	d := tdiff.Compute(cst.ToBCST(prevRCST), cst.ToBCST(nextRCST), tdiff.Options{})
	encoded, err := tdiff.Encode(d)
	if err != nil {
		return nil, false, err
	}
	return encoded, true, nil
}

// StagedEntry returns path's staged index entry, if any.
func (r *Repository) StagedEntry(path string) (IndexEntry, bool) {
	return r.index.Get(path)
}

// CommittedBlob returns the hash and object type path was last committed
// as, under the current HEAD's tree.
func (r *Repository) CommittedBlob(path string) (plumbing.Hash, ObjectType, bool, error) {
	return r.priorBlob(path)
}

// Remove unstages path.
func (r *Repository) Remove(path string) error {
	if !r.index.Remove(path) {
		return fmt.Errorf("repo: %s is not staged", path)
	}
	return r.index.Save()
}

// StatusEntry is one path's staged state, reported by Status.
type StatusEntry struct {
	Path string
	Type ObjectType
}

// Status lists the currently staged paths, sorted for deterministic
// output.
func (r *Repository) Status() []StatusEntry {
	out := make([]StatusEntry, 0, len(r.index.Entries))
	for _, e := range r.index.Entries {
		out = append(out, StatusEntry{Path: e.Path, Type: e.Type})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Commit snapshots the index into a Tree object and chains a Commit
// object onto the current HEAD.
func (r *Repository) Commit(author, message string) (plumbing.Hash, error) {
	if len(r.index.Entries) == 0 {
		return plumbing.ZeroHash, fmt.Errorf("repo: nothing staged to commit")
	}

	tree := Tree{Entries: make([]TreeEntry, 0, len(r.index.Entries))}
	for _, e := range r.index.Entries {
		tree.Entries = append(tree.Entries, TreeEntry{
			Path: e.Path,
			Hash: e.Hash,
			Mode: packMode(e.Mode, e.Type),
		})
	}
	treeBytes, err := encodeTOML(tree)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	treeHash, err := r.store.Put(treeBytes)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	parent, err := r.Head()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	commit := Commit{
		Tree:     treeHash,
		Parent:   parent,
		Author:   author,
		Message:  message,
		TimeUnix: time.Now().Unix(),
	}
	commitBytes, err := encodeTOML(commit)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	commitHash, err := r.store.Put(commitBytes)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if err := r.setHead(commitHash); err != nil {
		return plumbing.ZeroHash, err
	}
	return commitHash, nil
}

func (r *Repository) readTree(h plumbing.Hash) (*Tree, error) {
	b, err := r.store.Get(h)
	if err != nil {
		return nil, err
	}
	var t Tree
	if err := decodeTOML(b, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) readCommit(h plumbing.Hash) (*Commit, error) {
	b, err := r.store.Get(h)
	if err != nil {
		return nil, err
	}
	var c Commit
	if err := decodeTOML(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LogEntry pairs a commit with its own object hash, which Commit itself
// does not carry since that hash is only known once it is stored.
type LogEntry struct {
	Hash   plumbing.Hash
	Commit *Commit
}

// Log walks the commit chain from HEAD back to the root, newest first.
func (r *Repository) Log() ([]LogEntry, error) {
	head, err := r.Head()
	if err != nil {
		return nil, err
	}
	var entries []LogEntry
	for h := head; h != plumbing.ZeroHash; {
		c, err := r.readCommit(h)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LogEntry{Hash: h, Commit: c})
		h = c.Parent
	}
	return entries, nil
}

// Tag records a lightweight tag: a name pointing at a commit hash.
func (r *Repository) Tag(name string) error {
	head, err := r.Head()
	if err != nil {
		return err
	}
	if head == plumbing.ZeroHash {
		return fmt.Errorf("repo: no commits yet")
	}
	p := filepath.Join(r.GroveDir, "refs", "tags", name)
	return os.WriteFile(p, []byte(head.String()), 0o644)
}

// Materialize reconstructs path's full content as of the blob stored
// under h with the given object type, replaying a line delta or
// structural diff against its parent when needed.
func (r *Repository) Materialize(path string, h plumbing.Hash, t ObjectType, parent plumbing.Hash, parentParse ParserFunc) ([]byte, error) {
	payload, err := r.store.Get(h)
	if err != nil {
		return nil, err
	}
	switch t {
	case ObjectBlob:
		return payload, nil
	case ObjectLineDelta:
		ops, err := decodeLineDelta(payload)
		if err != nil {
			return nil, err
		}
		base, err := r.store.Get(parent)
		if err != nil {
			return nil, err
		}
		return applyLineDelta(base, ops)
	case ObjectTreeDelta:
		if parentParse == nil {
			return nil, fmt.Errorf("repo: no parser available to materialize tree-delta for %s", path)
		}
		base, err := r.store.Get(parent)
		if err != nil {
			return nil, err
		}
		source, err := parentParse(base)
		if err != nil {
			return nil, err
		}
		d, err := tdiff.Decode(payload, base)
		if err != nil {
			return nil, err
		}
		patched, err := tdiff.Patch(cst.ToBCST(source), d)
		if err != nil {
			return nil, err
		}
		return []byte(cst.Render(patched)), nil
	default:
		return nil, fmt.Errorf("repo: unknown object type %d", t)
	}
}

func encodeTOML(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeTOML(data []byte, v any) error {
	_, err := toml.Decode(string(data), v)
	return err
}
