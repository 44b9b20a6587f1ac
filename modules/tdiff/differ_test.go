package tdiff

import (
	"testing"

	"github.com/grove-vcs/grove/modules/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	kindFn     cst.Kind = 1
	kindIdent  cst.Kind = 2
	kindBody   cst.Kind = 3
	kindNumber cst.Kind = 4
	kindStruct cst.Kind = 5
	kindField  cst.Kind = 6
)

func tok(kind cst.Kind, text string, named bool) cst.RCST {
	return cst.Leaf(cst.Data{Kind: kind, Text: text, Named: named, ByteEnd: len(text), ColEnd: len(text)})
}

func fnTree(name string, body string) *cst.BCST {
	r := cst.Node(cst.Metadata{Kind: kindFn},
		tok(kindIdent, name, true),
		cst.Node(cst.Metadata{Kind: kindBody}, tok(kindNumber, body, true)),
	)
	return cst.ToBCST(r)
}

func TestDifferRenameIdentifier(t *testing.T) {
	l := fnTree("foo", "1")
	r := fnTree("bar", "1")

	d := Compute(l, r, Options{})
	patched, err := Patch(l, d)
	require.NoError(t, err)
	assert.True(t, patched.Equal(r))
}

func TestDifferIdenticalTreesYieldEps(t *testing.T) {
	l := fnTree("foo", "1")
	r := fnTree("foo", "1")

	d := Compute(l, r, Options{})
	assert.Equal(t, TagEps, d.Tag)
}

func TestDifferInsertStatement(t *testing.T) {
	l := cst.ToBCST(cst.Node(cst.Metadata{Kind: kindBody}, tok(kindNumber, "1", true)))
	r := cst.ToBCST(cst.Node(cst.Metadata{Kind: kindBody},
		tok(kindNumber, "5", true),
		tok(kindNumber, "3", true),
	))

	d := Compute(l, r, Options{})
	patched, err := Patch(l, d)
	require.NoError(t, err)
	assert.True(t, patched.Equal(r))
}

func TestDifferFullReplacement(t *testing.T) {
	l := fnTree("foo", "1")
	r := cst.ToBCST(cst.Node(cst.Metadata{Kind: kindStruct},
		tok(kindField, "i", true),
	))

	d := Compute(l, r, Options{})
	patched, err := Patch(l, d)
	require.NoError(t, err)
	assert.True(t, patched.Equal(r))
	// The two roots share no structure, so Compute returns a root TMod.
	assert.LessOrEqual(t, Weight(d), Weight(NewMod(l, r)))
}

func TestDifferWeightNeverExceedsTrivialMod(t *testing.T) {
	l := fnTree("foo", "1")
	r := fnTree("bar", "9")

	d := Compute(l, r, Options{})
	assert.LessOrEqual(t, Weight(d), Weight(NewMod(l, r)))
}

func TestDifferMaxExpansionsFallsBackToMod(t *testing.T) {
	l := fnTree("foo", "1")
	r := fnTree("bar", "9")

	d := Compute(l, r, Options{MaxExpansions: 1})
	patched, err := Patch(l, d)
	require.NoError(t, err)
	assert.True(t, patched.Equal(r))
}
