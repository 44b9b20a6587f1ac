// Package tdiff implements the structural diff algebra over modules/cst
// trees: the Diff variant and its weight, the A*-guided differ, the
// deterministic patcher, the three-way merger, and the binary codec.
package tdiff

import "github.com/grove-vcs/grove/modules/cst"

// Tag identifies which constructor a Diff holds.
type Tag uint8

const (
	TagEps Tag = iota
	TagRMod
	TagTEps
	TagMod
	TagTMod
	TagAddL
	TagAddR
	TagDelL
	TagDelR
	TagErr
)

// Diff is the tagged variant describing a structural edit from one BCST to
// another. Only the fields relevant to Tag are populated; see the per-tag
// constructors below.
type Diff struct {
	Tag Tag

	NewLeaf cst.Data // RMod

	From *cst.BCST // Mod
	To   *cst.BCST // Mod

	Meta cst.Metadata // TEps

	FromMeta cst.Metadata // TMod
	ToMeta   cst.Metadata // TMod

	Left  *Diff // TEps, TMod
	Right *Diff // TEps, TMod

	AddMeta cst.Metadata // AddL, AddR
	NewTree *cst.BCST    // AddL, AddR
	Inner   *Diff        // AddL, AddR, DelL, DelR

	ConflictLeft  *Diff // Err
	ConflictRight *Diff // Err
}

// Eps is the shared no-op diff; T patches to itself.
var Eps = &Diff{Tag: TagEps}

func NewRMod(newLeaf cst.Data) *Diff {
	return &Diff{Tag: TagRMod, NewLeaf: newLeaf}
}

func NewMod(from, to *cst.BCST) *Diff {
	return &Diff{Tag: TagMod, From: from, To: to}
}

func NewTEps(m cst.Metadata, left, right *Diff) *Diff {
	return &Diff{Tag: TagTEps, Meta: m, Left: left, Right: right}
}

func NewTMod(from, to cst.Metadata, left, right *Diff) *Diff {
	return &Diff{Tag: TagTMod, FromMeta: from, ToMeta: to, Left: left, Right: right}
}

func NewAddL(m cst.Metadata, newLeft *cst.BCST, inner *Diff) *Diff {
	return &Diff{Tag: TagAddL, AddMeta: m, NewTree: newLeft, Inner: inner}
}

func NewAddR(m cst.Metadata, inner *Diff, newRight *cst.BCST) *Diff {
	return &Diff{Tag: TagAddR, AddMeta: m, Inner: inner, NewTree: newRight}
}

func NewDelL(inner *Diff) *Diff {
	return &Diff{Tag: TagDelL, Inner: inner}
}

func NewDelR(inner *Diff) *Diff {
	return &Diff{Tag: TagDelR, Inner: inner}
}

func NewErr(left, right *Diff) *Diff {
	return &Diff{Tag: TagErr, ConflictLeft: left, ConflictRight: right}
}

// Weight is the optimization target the differ minimizes and the proxy
// for a diff's at-rest size.
func Weight(d *Diff) int {
	if d == nil {
		return 0
	}
	switch d.Tag {
	case TagEps, TagRMod, TagErr:
		return 0
	case TagTEps:
		return Weight(d.Left) + Weight(d.Right)
	case TagMod:
		return 1 + d.From.Size() + d.To.Size()
	case TagTMod:
		return 1 + Weight(d.Left) + Weight(d.Right)
	case TagAddL, TagAddR:
		return 1 + d.NewTree.Size() + Weight(d.Inner)
	case TagDelL, TagDelR:
		return 1 + Weight(d.Inner)
	default:
		return 0
	}
}

// Ered folds no-op sub-diffs, pushing Eps through constructors. It is
// idempotent and patch-preserving: patch(t, Ered(d)) == patch(t, d).
func Ered(d *Diff) *Diff {
	if d == nil {
		return d
	}
	switch d.Tag {
	case TagEps, TagRMod, TagErr:
		return d
	case TagMod:
		if d.From.Equal(d.To) {
			return Eps
		}
		return d
	case TagTEps:
		l, r := Ered(d.Left), Ered(d.Right)
		if l.Tag == TagEps && r.Tag == TagEps {
			return Eps
		}
		if l == d.Left && r == d.Right {
			return d
		}
		return NewTEps(d.Meta, l, r)
	case TagTMod:
		l, r := Ered(d.Left), Ered(d.Right)
		if l == d.Left && r == d.Right {
			return d
		}
		return NewTMod(d.FromMeta, d.ToMeta, l, r)
	case TagAddL:
		inner := Ered(d.Inner)
		if inner == d.Inner {
			return d
		}
		return NewAddL(d.AddMeta, d.NewTree, inner)
	case TagAddR:
		inner := Ered(d.Inner)
		if inner == d.Inner {
			return d
		}
		return NewAddR(d.AddMeta, inner, d.NewTree)
	case TagDelL:
		inner := Ered(d.Inner)
		if inner == d.Inner {
			return d
		}
		return NewDelL(inner)
	case TagDelR:
		inner := Ered(d.Inner)
		if inner == d.Inner {
			return d
		}
		return NewDelR(inner)
	default:
		return d
	}
}

// Equal reports whether two diffs are structurally identical.
func (d *Diff) Equal(o *Diff) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Tag != o.Tag {
		return false
	}
	switch d.Tag {
	case TagEps, TagErr:
		return true
	case TagRMod:
		return d.NewLeaf == o.NewLeaf
	case TagMod:
		return d.From.Equal(o.From) && d.To.Equal(o.To)
	case TagTEps:
		return d.Meta == o.Meta && d.Left.Equal(o.Left) && d.Right.Equal(o.Right)
	case TagTMod:
		return d.FromMeta == o.FromMeta && d.ToMeta == o.ToMeta && d.Left.Equal(o.Left) && d.Right.Equal(o.Right)
	case TagAddL, TagAddR:
		return d.AddMeta == o.AddMeta && d.NewTree.Equal(o.NewTree) && d.Inner.Equal(o.Inner)
	case TagDelL, TagDelR:
		return d.Inner.Equal(o.Inner)
	default:
		return false
	}
}
