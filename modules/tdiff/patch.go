package tdiff

import (
	"fmt"

	"github.com/grove-vcs/grove/modules/cst"
)

// PatchError reports a diff constructor applied to an incompatible tree
// head. Patching is all-or-nothing: the first mismatch aborts the whole
// operation.
type PatchError struct {
	Tree   *cst.BCST
	Diff   *Diff
	Reason string
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("tdiff: patch failed: %s", e.Reason)
}

// Patch applies d to t, returning the patched tree or a *PatchError if d's
// constructor does not match t's head.
func Patch(t *cst.BCST, d *Diff) (*cst.BCST, error) {
	if d == nil || d.Tag == TagEps {
		return t, nil
	}
	switch d.Tag {
	case TagRMod:
		if !t.IsLeaf() {
			return nil, &PatchError{t, d, "RMod applied to a non-leaf"}
		}
		nd := d.NewLeaf
		nd.Named = t.Data().Named
		return cst.NewLeaf(nd), nil

	case TagMod:
		if !t.Equal(d.From) {
			return nil, &PatchError{t, d, "Mod base does not match the tree being patched"}
		}
		return d.To, nil

	case TagTEps:
		if t.IsLeaf() || t.Metadata() != d.Meta {
			return nil, &PatchError{t, d, "TEps metadata does not match the node being patched"}
		}
		left, err := Patch(t.Left(), d.Left)
		if err != nil {
			return nil, err
		}
		right, err := Patch(t.Right(), d.Right)
		if err != nil {
			return nil, err
		}
		return cst.NewNode(d.Meta, left, right), nil

	case TagTMod:
		if t.IsLeaf() || t.Metadata() != d.FromMeta {
			return nil, &PatchError{t, d, "TMod source metadata does not match the node being patched"}
		}
		left, err := Patch(t.Left(), d.Left)
		if err != nil {
			return nil, err
		}
		right, err := Patch(t.Right(), d.Right)
		if err != nil {
			return nil, err
		}
		return cst.NewNode(d.ToMeta, left, right), nil

	case TagAddL:
		inner, err := Patch(t, d.Inner)
		if err != nil {
			return nil, err
		}
		return cst.NewNode(d.AddMeta, d.NewTree, inner), nil

	case TagAddR:
		inner, err := Patch(t, d.Inner)
		if err != nil {
			return nil, err
		}
		return cst.NewNode(d.AddMeta, inner, d.NewTree), nil

	case TagDelL:
		if t.IsLeaf() {
			return nil, &PatchError{t, d, "DelL applied to a leaf"}
		}
		return Patch(t.Right(), d.Inner)

	case TagDelR:
		if t.IsLeaf() {
			return nil, &PatchError{t, d, "DelR applied to a leaf"}
		}
		return Patch(t.Left(), d.Inner)

	case TagErr:
		return nil, &PatchError{t, d, "cannot patch an unresolved merge conflict"}

	default:
		return nil, &PatchError{t, d, "unknown diff tag"}
	}
}
