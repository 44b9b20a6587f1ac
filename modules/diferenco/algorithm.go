package diferenco

import (
	"context"
	"fmt"
)

// Algorithm selects which line-matching strategy a diff or merge uses.
type Algorithm int

const (
	Unspecified Algorithm = iota
	Histogram
	Myers
	ONP
	Patience
	Minimal
)

func (a Algorithm) String() string {
	switch a {
	case Histogram:
		return "histogram"
	case Myers:
		return "myers"
	case ONP:
		return "onp"
	case Patience:
		return "patience"
	case Minimal:
		return "minimal"
	default:
		return "unspecified"
	}
}

// diffInternal dispatches to the package's concrete differs, normalizing
// their results to the sparse Change-hunk form merge.go and unified.go
// are built around.
func diffInternal[E comparable](ctx context.Context, a, b []E, algo Algorithm) ([]Change, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	switch algo {
	case Histogram, Unspecified:
		return HistogramDiff(a, b), nil
	case Myers:
		return MyersDiff(a, b), nil
	case ONP:
		return OnpDiff(a, b), nil
	case Patience:
		return dfioToChanges(PatienceDiff(a, b)), nil
	case Minimal:
		diffs, err := DiffSlices(ctx, a, b)
		if err != nil {
			return nil, err
		}
		return dfioToChanges(diffs), nil
	default:
		return nil, fmt.Errorf("diferenco: unsupported algorithm %v", algo)
	}
}

// dfioToChanges collapses a contiguous Equal/Delete/Insert edit script into
// the position-addressed hunks the Change type uses, pairing an adjacent
// Delete+Insert pair into a single replace hunk.
func dfioToChanges[E comparable](diffs []Dfio[E]) []Change {
	var changes []Change
	p1, p2 := 0, 0
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.T {
		case Equal:
			p1 += len(d.E)
			p2 += len(d.E)
		case Delete:
			del := len(d.E)
			ins := 0
			if i+1 < len(diffs) && diffs[i+1].T == Insert {
				ins = len(diffs[i+1].E)
				i++
			}
			changes = append(changes, Change{P1: p1, P2: p2, Del: del, Ins: ins})
			p1 += del
			p2 += ins
		case Insert:
			ins := len(d.E)
			changes = append(changes, Change{P1: p1, P2: p2, Ins: ins})
			p2 += ins
		}
	}
	return changes
}
