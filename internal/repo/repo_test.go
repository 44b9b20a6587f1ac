package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grove-vcs/grove/modules/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	kindWords cst.Kind = 1
	kindWord  cst.Kind = 2
)

// wordsParser is a tiny synthetic grammar used only by tests, standing in
// for a real tree-sitter-style backend: it splits source on whitespace
// and builds one named leaf per word under a single root node. It exists
// to exercise the tree pipeline end to end without depending on a real
// parser library. It only tracks byte ranges, not row/col, so a
// materialized round trip loses whitespace rather than being byte-exact.
func wordsParser(source []byte) (cst.RCST, error) {
	words := strings.Fields(string(source))
	children := make([]cst.RCST, len(words))
	pos := 0
	text := string(source)
	for i, w := range words {
		start := strings.Index(text[pos:], w) + pos
		end := start + len(w)
		children[i] = cst.Leaf(cst.Data{
			Kind:      kindWord,
			ByteStart: start,
			ByteEnd:   end,
			Text:      w,
			Named:     true,
		})
		pos = end
	}
	return cst.Node(cst.Metadata{Kind: kindWords}, children...), nil
}

func initTestRepo(t *testing.T) *Repository {
	t.Helper()
	dir := t.TempDir()
	r, err := Init(dir)
	require.NoError(t, err)
	return r
}

func writeFile(t *testing.T, r *Repository, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(r.WorkTree, path), []byte(content), 0o644))
}

func TestInitCreatesControlDir(t *testing.T) {
	r := initTestRepo(t)
	_, err := os.Stat(filepath.Join(r.GroveDir, "objects"))
	require.NoError(t, err)
}

func TestAddCommitAndLog(t *testing.T) {
	r := initTestRepo(t)
	writeFile(t, r, "README.txt", "hello world\n")
	require.NoError(t, r.Add("README.txt"))

	status := r.Status()
	require.Len(t, status, 1)
	assert.Equal(t, "README.txt", status[0].Path)
	assert.Equal(t, ObjectBlob, status[0].Type)

	h, err := r.Commit("tester <t@example.com>", "initial commit")
	require.NoError(t, err)
	assert.NotEqual(t, h.String(), "")

	log, err := r.Log()
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "initial commit", log[0].Commit.Message)
	assert.Equal(t, h, log[0].Hash)
}

func TestAddUsesLineDeltaAgainstPriorBlob(t *testing.T) {
	r := initTestRepo(t)
	writeFile(t, r, "notes.txt", "one\ntwo\nthree\n")
	require.NoError(t, r.Add("notes.txt"))
	_, err := r.Commit("tester <t@example.com>", "rev1")
	require.NoError(t, err)

	writeFile(t, r, "notes.txt", "one\ntwo\nfour\n")
	require.NoError(t, r.Add("notes.txt"))

	status := r.Status()
	require.Len(t, status, 1)
	assert.Equal(t, ObjectLineDelta, status[0].Type)
}

func TestAddUsesTreeDeltaWhenParserRegistered(t *testing.T) {
	// "go" is a grammar name modules/linguist already maps the .go
	// extension to; registering the synthetic word-splitter under that
	// name is enough to exercise the tree pipeline without a real
	// parser backend.
	RegisterParser("go", wordsParser)
	defer UnregisterParser("go")

	r := initTestRepo(t)
	writeFile(t, r, "doc.go", "the quick fox\n")
	require.NoError(t, r.Add("doc.go"))
	_, err := r.Commit("tester <t@example.com>", "rev1")
	require.NoError(t, err)

	writeFile(t, r, "doc.go", "the slow fox\n")
	require.NoError(t, r.Add("doc.go"))

	status := r.Status()
	require.Len(t, status, 1)
	require.Equal(t, ObjectTreeDelta, status[0].Type)

	entry, ok := r.index.Get("doc.go")
	require.True(t, ok)

	head, err := r.Head()
	require.NoError(t, err)
	commit, err := r.readCommit(head)
	require.NoError(t, err)
	tree, err := r.readTree(commit.Tree)
	require.NoError(t, err)
	var parentHash = tree.Entries[0].Hash

	materialized, err := r.Materialize("doc.go", entry.Hash, entry.Type, parentHash, wordsParser)
	require.NoError(t, err)
	assert.Contains(t, string(materialized), "slow")
}

func TestRemoveUnstagesPath(t *testing.T) {
	r := initTestRepo(t)
	writeFile(t, r, "a.txt", "a\n")
	require.NoError(t, r.Add("a.txt"))
	require.NoError(t, r.Remove("a.txt"))
	assert.Empty(t, r.Status())
}

func TestTagRequiresACommit(t *testing.T) {
	r := initTestRepo(t)
	err := r.Tag("v0.1")
	require.Error(t, err)

	writeFile(t, r, "a.txt", "a\n")
	require.NoError(t, r.Add("a.txt"))
	_, err = r.Commit("tester <t@example.com>", "first")
	require.NoError(t, err)

	require.NoError(t, r.Tag("v0.1"))
	_, err = os.Stat(filepath.Join(r.GroveDir, "refs", "tags", "v0.1"))
	require.NoError(t, err)
}
