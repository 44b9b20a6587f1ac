package repo

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/grove-vcs/grove/modules/plumbing"
	"github.com/grove-vcs/grove/modules/streamio"
)

// Store is the content-addressed, zstd-compressed object store rooted at
// <groveDir>/objects, laid out the way the teacher's loose-object store
// shards by the hash's first byte to keep directories shallow.
type Store struct {
	root string
}

func NewStore(groveDir string) *Store {
	return &Store{root: filepath.Join(groveDir, "objects")}
}

func (s *Store) pathFor(h plumbing.Hash) string {
	hex := h.String()
	return filepath.Join(s.root, hex[:2], hex[2:])
}

// Has reports whether an object with hash h is already stored.
func (s *Store) Has(h plumbing.Hash) bool {
	_, err := os.Stat(s.pathFor(h))
	return err == nil
}

// Put compresses and stores payload, returning its content hash. Writing
// is idempotent: if the object already exists its content is trusted and
// not rewritten.
func (s *Store) Put(payload []byte) (plumbing.Hash, error) {
	hasher := plumbing.NewHasher()
	_, _ = hasher.Write(payload)
	h := hasher.Sum()

	if s.Has(h) {
		return h, nil
	}

	p := s.pathFor(h)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return plumbing.ZeroHash, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), "obj-*.tmp")
	if err != nil {
		return plumbing.ZeroHash, err
	}
	defer os.Remove(tmp.Name())

	zw := streamio.GetZstdWriter(tmp)
	_, writeErr := zw.Write(payload)
	streamio.PutZstdWriter(zw) // flushes and closes the frame into tmp
	if writeErr != nil {
		tmp.Close()
		return plumbing.ZeroHash, writeErr
	}
	if err := tmp.Close(); err != nil {
		return plumbing.ZeroHash, err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return plumbing.ZeroHash, err
	}
	return h, nil
}

// Get reads and decompresses the object stored under h.
func (s *Store) Get(h plumbing.Hash) ([]byte, error) {
	p := s.pathFor(h)
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ErrObjectNotFound{Hash: h}
		}
		return nil, err
	}
	defer f.Close()

	zr, err := streamio.GetZstdReader(f)
	if err != nil {
		return nil, err
	}
	defer streamio.PutZstdReader(zr)

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
