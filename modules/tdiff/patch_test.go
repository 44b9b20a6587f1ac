package tdiff

import (
	"testing"

	"github.com/grove-vcs/grove/modules/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchEpsIsIdentity(t *testing.T) {
	l := fnTree("foo", "1")
	patched, err := Patch(l, Eps)
	require.NoError(t, err)
	assert.True(t, patched.Equal(l))
}

func TestPatchRejectsMismatchedTMod(t *testing.T) {
	l := fnTree("foo", "1")
	bad := NewTMod(cst.Metadata{Kind: 999}, cst.Metadata{Kind: 1000}, Eps, Eps)
	_, err := Patch(l, bad)
	require.Error(t, err)
	var perr *PatchError
	assert.ErrorAs(t, err, &perr)
}

func TestPatchRejectsDelLOnLeaf(t *testing.T) {
	leaf := cst.NewLeaf(cst.Data{Kind: 1, Text: "x", Named: true})
	_, err := Patch(leaf, NewDelL(Eps))
	require.Error(t, err)
}

func TestEredIdempotent(t *testing.T) {
	l := fnTree("foo", "1")
	r := fnTree("bar", "9")
	d := Compute(l, r, Options{})

	once := Ered(d)
	twice := Ered(once)
	assert.True(t, once.Equal(twice))

	patchedOnce, err := Patch(l, once)
	require.NoError(t, err)
	patchedRaw, err := Patch(l, d)
	require.NoError(t, err)
	assert.True(t, patchedOnce.Equal(patchedRaw))
}
