package tdiff

// MergeConflict records a pair of sub-diffs the merger could not combine.
// It is never raised as an error: it is appended to the caller-supplied
// list and an Err marker is left in the merged diff at that position.
type MergeConflict struct {
	Left  *Diff
	Right *Diff
}

// Merge combines two diffs computed from the same base tree into one,
// descending both in lock-step. Compatible constructors are merged
// componentwise; incompatible ones are recorded as a MergeConflict and
// replaced with an Err marker in the result. Merge never panics and never
// silently drops a conflicting edit.
func Merge(left, right *Diff, conflicts *[]MergeConflict) *Diff {
	switch {
	case left.Tag == TagEps:
		return right
	case right.Tag == TagEps:
		return left
	case left.Equal(right):
		return left
	}

	switch {
	case left.Tag == TagTEps && right.Tag == TagTEps && left.Meta == right.Meta:
		return NewTEps(left.Meta, Merge(left.Left, right.Left, conflicts), Merge(left.Right, right.Right, conflicts))

	case left.Tag == TagTMod && right.Tag == TagTMod && left.FromMeta == right.FromMeta && left.ToMeta == right.ToMeta:
		return NewTMod(left.FromMeta, left.ToMeta, Merge(left.Left, right.Left, conflicts), Merge(left.Right, right.Right, conflicts))

	case left.Tag == TagTEps && right.Tag == TagTMod && left.Meta == right.FromMeta:
		return NewTMod(right.FromMeta, right.ToMeta, Merge(left.Left, right.Left, conflicts), Merge(left.Right, right.Right, conflicts))

	case left.Tag == TagTMod && right.Tag == TagTEps && left.FromMeta == right.Meta:
		return NewTMod(left.FromMeta, left.ToMeta, Merge(left.Left, right.Left, conflicts), Merge(left.Right, right.Right, conflicts))
	}

	if d, ok := liftTEps(left, right, conflicts); ok {
		return d
	}
	if d, ok := liftTEps(right, left, conflicts); ok {
		return d
	}

	switch {
	case left.Tag == TagAddL && right.Tag == TagAddL && left.AddMeta == right.AddMeta && left.NewTree.Equal(right.NewTree):
		return NewAddL(left.AddMeta, left.NewTree, Merge(left.Inner, right.Inner, conflicts))
	case left.Tag == TagAddR && right.Tag == TagAddR && left.AddMeta == right.AddMeta && left.NewTree.Equal(right.NewTree):
		return NewAddR(left.AddMeta, Merge(left.Inner, right.Inner, conflicts), left.NewTree)
	case left.Tag == TagDelL && right.Tag == TagDelL:
		return NewDelL(Merge(left.Inner, right.Inner, conflicts))
	case left.Tag == TagDelR && right.Tag == TagDelR:
		return NewDelR(Merge(left.Inner, right.Inner, conflicts))
	}

	*conflicts = append(*conflicts, MergeConflict{Left: left, Right: right})
	return NewErr(left, right)
}

// liftTEps handles the pairing of a whole-subtree TEps edit against one
// side's Add/Del: an Add hasn't consumed any of the base tree yet, so its
// continuation must still resolve the whole TEps; a Del drops one child
// outright, so its continuation resolves against that child's half of the
// TEps alone.
func liftTEps(a, b *Diff, conflicts *[]MergeConflict) (*Diff, bool) {
	if a.Tag != TagTEps {
		return nil, false
	}
	switch b.Tag {
	case TagAddL:
		return NewAddL(b.AddMeta, b.NewTree, Merge(a, b.Inner, conflicts)), true
	case TagAddR:
		return NewAddR(b.AddMeta, Merge(a, b.Inner, conflicts), b.NewTree), true
	case TagDelL:
		return NewDelL(Merge(a.Right, b.Inner, conflicts)), true
	case TagDelR:
		return NewDelR(Merge(a.Left, b.Inner, conflicts)), true
	default:
		return nil, false
	}
}

// Conflicted reports whether d contains any unresolved Err markers.
func Conflicted(d *Diff) bool {
	if d == nil {
		return false
	}
	switch d.Tag {
	case TagErr:
		return true
	case TagTEps, TagTMod:
		return Conflicted(d.Left) || Conflicted(d.Right)
	case TagAddL, TagAddR, TagDelL, TagDelR:
		return Conflicted(d.Inner)
	default:
		return false
	}
}
