package tdiff

import (
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/emirpasic/gods/utils"
	"github.com/grove-vcs/grove/modules/cst"
)

// Options bounds the differ's work. The zero value is unbounded.
type Options struct {
	// MaxExpansions caps the number of Next-state expansions per
	// pairwise sub-search before falling back to the shallow Mod(L,R)
	// diff for that sub-search. Zero means unbounded.
	MaxExpansions int
}

// Compute returns a diff turning l into r, found by a best-first search
// over the edit graph and then ε-reduced. It always terminates and always
// returns a diff such that Patch(l, result) == r.
func Compute(l, r *cst.BCST, opts Options) *Diff {
	return Ered(search(l, r, opts))
}

type stateKind uint8

const (
	stateNext stateKind = iota
	stateNextLREps
	stateNextLRMod
	stateFinal
)

// state identifies a node of the edit graph. All fields are comparable,
// so state is usable as a map key; this gives memoization across
// convergent paths for free.
type state struct {
	kind stateKind

	a, b *cst.BCST // stateNext

	a0, b0, a1, b1 *cst.BCST // stateNextLREps / stateNextLRMod

	meta             cst.Metadata // stateNextLREps
	fromMeta, toMeta cst.Metadata // stateNextLRMod

	final *Diff // stateFinal; pointer identity makes the state unique
}

func nextState(a, b *cst.BCST) state { return state{kind: stateNext, a: a, b: b} }

type edgeTag uint8

const (
	edgeAddL edgeTag = iota
	edgeAddR
	edgeDelL
	edgeDelR
)

type edgeInfo struct {
	tag     edgeTag
	meta    cst.Metadata
	newTree *cst.BCST
}

type neighbor struct {
	to   state
	cost int
	edge edgeInfo // how to wrap a diff resolved at `to` into a diff for the edge's source
	wrap bool      // whether edge should be applied at all (false for edges straight into NextLR/Final)
}

// heuristic is the admissible A* lower bound: the minimum remaining
// height between the two sides of a pending comparison.
func heuristic(s state) int {
	switch s.kind {
	case stateNext:
		return min(s.a.Height(), s.b.Height())
	case stateNextLREps, stateNextLRMod:
		return min(min(s.a0.Height(), s.b0.Height()), min(s.a1.Height(), s.b1.Height()))
	default:
		return 0
	}
}

// neighbors enumerates the candidate edges leaving a Next(a,b) state, per
// the case analysis on the two tree heads.
func neighbors(a, b *cst.BCST) []neighbor {
	switch {
	case a.IsLeaf() && b.IsLeaf():
		return []neighbor{leafLeaf(a, b)}
	case !a.IsLeaf() && !b.IsLeaf():
		return nodeNode(a, b)
	case a.IsLeaf() && !b.IsLeaf():
		return leafNode(a, b)
	default:
		return nodeLeaf(a, b)
	}
}

func leafLeaf(a, b *cst.BCST) neighbor {
	da, db := a.Data(), b.Data()
	var d *Diff
	switch {
	case da == db:
		d = Eps
	case da.Named && db.Named && da.Kind == db.Kind:
		d = NewRMod(db)
	case !da.Named && !db.Named:
		d = NewRMod(db)
	default:
		d = NewMod(a, b)
	}
	return neighbor{to: state{kind: stateFinal, final: d}, cost: Weight(d)}
}

func nodeNode(a, b *cst.BCST) []neighbor {
	metaA, metaB := a.Metadata(), b.Metadata()
	x0, y0 := a.Left(), a.Right()
	x1, y1 := b.Left(), b.Right()

	ns := []neighbor{
		{to: nextState(a, y1), cost: 1, wrap: true, edge: edgeInfo{tag: edgeAddL, meta: metaB, newTree: x1}},
		{to: nextState(a, x1), cost: 1, wrap: true, edge: edgeInfo{tag: edgeAddR, meta: metaB, newTree: y1}},
		{to: nextState(y0, b), cost: 1, wrap: true, edge: edgeInfo{tag: edgeDelL}},
		{to: nextState(x0, b), cost: 1, wrap: true, edge: edgeInfo{tag: edgeDelR}},
	}
	if metaA == metaB {
		ns = append(ns, neighbor{
			to:   state{kind: stateNextLREps, a0: x0, b0: x1, a1: y0, b1: y1, meta: metaA},
			cost: 0,
		})
	} else {
		ns = append(ns, neighbor{
			to:   state{kind: stateNextLRMod, a0: x0, b0: x1, a1: y0, b1: y1, fromMeta: metaA, toMeta: metaB},
			cost: 0,
		})
		mod := NewMod(a, b)
		ns = append(ns, neighbor{to: state{kind: stateFinal, final: mod}, cost: Weight(mod)})
	}
	return ns
}

func leafNode(a, b *cst.BCST) []neighbor {
	meta := b.Metadata()
	x, y := b.Left(), b.Right()
	mod := NewMod(a, b)
	return []neighbor{
		{to: state{kind: stateFinal, final: mod}, cost: Weight(mod)},
		{to: nextState(a, y), cost: 1, wrap: true, edge: edgeInfo{tag: edgeAddL, meta: meta, newTree: x}},
		{to: nextState(a, x), cost: 1, wrap: true, edge: edgeInfo{tag: edgeAddR, meta: meta, newTree: y}},
	}
}

func nodeLeaf(a, b *cst.BCST) []neighbor {
	x, y := a.Left(), a.Right()
	mod := NewMod(a, b)
	return []neighbor{
		{to: state{kind: stateFinal, final: mod}, cost: Weight(mod)},
		{to: nextState(y, b), cost: 1, wrap: true, edge: edgeInfo{tag: edgeDelL}},
		{to: nextState(x, b), cost: 1, wrap: true, edge: edgeInfo{tag: edgeDelR}},
	}
}

type queueEntry struct {
	f, seq int
	st     state
}

func entryComparator(x, y interface{}) int {
	a, b := x.(queueEntry), y.(queueEntry)
	if a.f != b.f {
		return a.f - b.f
	}
	return a.seq - b.seq
}

// search runs the best-first edit-graph search for the pairwise problem
// (a, b) and returns a concrete diff turning a into b.
func search(a, b *cst.BCST, opts Options) *Diff {
	start := nextState(a, b)

	heap := binaryheap.NewWith(utils.Comparator(entryComparator))
	gScore := map[state]int{start: 0}
	parent := map[state]state{}
	parentEdge := map[state]edgeInfo{}
	seq := 0
	expansions := 0

	push := func(st state, g int) {
		heap.Push(queueEntry{f: g + heuristic(st), seq: seq, st: st})
		seq++
	}
	push(start, 0)

	for {
		raw, ok := heap.Pop()
		if !ok {
			// The search graph always admits a Mod fallback; an empty
			// heap means that path was never explored, which is a
			// logic error, not a legitimate outcome.
			return NewMod(a, b)
		}
		cur := raw.(queueEntry)
		st := cur.st
		g, known := gScore[st]
		if !known || cur.f-heuristic(st) > g {
			// Stale entry: a cheaper path to st was already processed.
			continue
		}

		switch st.kind {
		case stateFinal:
			return reconstruct(st, st.final, parent, parentEdge, start)

		case stateNextLREps, stateNextLRMod:
			left := search(st.a0, st.b0, opts)
			right := search(st.a1, st.b1, opts)
			var d *Diff
			if st.kind == stateNextLREps {
				d = NewTEps(st.meta, left, right)
			} else {
				d = NewTMod(st.fromMeta, st.toMeta, left, right)
			}
			return reconstruct(st, d, parent, parentEdge, start)

		case stateNext:
			expansions++
			if opts.MaxExpansions > 0 && expansions > opts.MaxExpansions {
				return NewMod(a, b)
			}
			for _, nb := range neighbors(st.a, st.b) {
				tentative := g + nb.cost
				if best, seen := gScore[nb.to]; !seen || tentative < best {
					gScore[nb.to] = tentative
					parent[nb.to] = st
					if nb.wrap {
						parentEdge[nb.to] = nb.edge
					}
					push(nb.to, tentative)
				}
			}
		}
	}
}

// reconstruct walks the parent chain from st back to start, wrapping the
// diff resolved at st with each traversed edge's constructor.
func reconstruct(st state, d *Diff, parent map[state]state, parentEdge map[state]edgeInfo, start state) *Diff {
	cur := st
	for cur != start {
		if edge, ok := parentEdge[cur]; ok {
			switch edge.tag {
			case edgeAddL:
				d = NewAddL(edge.meta, edge.newTree, d)
			case edgeAddR:
				d = NewAddR(edge.meta, d, edge.newTree)
			case edgeDelL:
				d = NewDelL(d)
			case edgeDelR:
				d = NewDelR(d)
			}
		}
		cur = parent[cur]
	}
	return d
}
