package tdiff

import (
	"testing"

	"github.com/grove-vcs/grove/modules/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kindAdd cst.Kind = 20
const kindSub cst.Kind = 21

func binExpr(op cst.Kind, lhs, rhs string) *cst.BCST {
	r := cst.Node(cst.Metadata{Kind: op},
		tok(kindNumber, lhs, true),
		tok(kindNumber, rhs, true),
	)
	return cst.ToBCST(r)
}

func TestMergeIdentityOnEps(t *testing.T) {
	l := fnTree("foo", "1")
	r := fnTree("bar", "1")
	d := Compute(l, r, Options{})

	var conflicts []MergeConflict
	assert.True(t, Merge(Eps, d, &conflicts).Equal(d))
	assert.True(t, Merge(d, Eps, &conflicts).Equal(d))
	assert.Empty(t, conflicts)
}

func TestMergeCleanNonOverlappingEdits(t *testing.T) {
	base := binExpr(kindAdd, "5", "6")
	left := binExpr(kindAdd, "5", "7")  // edits rhs
	right := binExpr(kindSub, "5", "6") // edits operator only

	dl := Compute(base, left, Options{})
	dr := Compute(base, right, Options{})

	var conflicts []MergeConflict
	merged := Merge(dl, dr, &conflicts)
	require.Empty(t, conflicts)
	require.False(t, Conflicted(merged))

	patched, err := Patch(base, merged)
	require.NoError(t, err)
	assert.Equal(t, "7", patched.Right().Data().Text)
	assert.Equal(t, kindSub, patched.Metadata().Kind)
}

func TestMergeConflictingEditsRecordsConflict(t *testing.T) {
	base := binExpr(kindAdd, "5", "6")
	left := binExpr(kindAdd, "5", "7")
	right := binExpr(kindAdd, "5", "8")

	dl := Compute(base, left, Options{})
	dr := Compute(base, right, Options{})

	var conflicts []MergeConflict
	merged := Merge(dl, dr, &conflicts)
	assert.NotEmpty(t, conflicts)
	assert.True(t, Conflicted(merged))
}

func TestMergeConflictSetSymmetric(t *testing.T) {
	base := binExpr(kindAdd, "5", "6")
	left := binExpr(kindAdd, "5", "7")
	right := binExpr(kindAdd, "5", "8")

	dl := Compute(base, left, Options{})
	dr := Compute(base, right, Options{})

	var c1, c2 []MergeConflict
	Merge(dl, dr, &c1)
	Merge(dr, dl, &c2)
	assert.Equal(t, len(c1), len(c2))
}
