// Package cst implements the tree model shared by the structural differ:
// a rose-tree intermediate form (RCST) produced directly from a parser's
// output, and a binary normal form (BCST) with cached subtree heights that
// every other package in modules/tdiff operates on.
package cst

// Kind identifies a parser node's grammar production as a small integer.
// The conversion between RCST and BCST needs two synthetic values: noKind
// marks the nil leaf (list terminator / empty-child marker) and consKind
// marks the cons node (right-spine continuation of a sibling list).
type Kind int32

const noKind Kind = -1

// consKind tags the synthetic binary nodes inserted to encode sibling
// lists longer than one element. It never collides with a real parser
// kind because parser kinds are required to be non-negative.
const consKind Kind = -2

// Data describes a leaf: either a token straight from the parser or the
// synthetic nil leaf (Kind == noKind, everything else zeroed).
type Data struct {
	Kind               Kind
	RowStart, ColStart int
	RowEnd, ColEnd     int
	ByteStart, ByteEnd int
	Text               string
	Named              bool
}

// NilData is the synthetic leaf marking an absent child or list terminator.
var NilData = Data{Kind: noKind}

// IsNil reports whether d is the synthetic nil leaf.
func (d Data) IsNil() bool {
	return d.Kind == noKind
}

// Metadata describes a non-leaf node: either a real grammar production or
// the synthetic cons marker used for sibling-list continuation.
type Metadata struct {
	Kind Kind
}

// consMeta tags a binary node that exists only to continue a sibling list;
// it is never produced directly by a parser.
var consMeta = Metadata{Kind: consKind}

// IsCons reports whether m is the synthetic list-continuation marker.
func (m Metadata) IsCons() bool {
	return m.Kind == consKind
}

// RCST is the rose (n-ary) tree built directly from parser output. It is
// an intermediate representation only: nothing outside this package should
// retain one once it has been lowered to a BCST.
type RCST struct {
	leaf     bool
	data     Data
	meta     Metadata
	children []RCST
}

// Leaf builds an RCST leaf from parser-derived data.
func Leaf(d Data) RCST {
	return RCST{leaf: true, data: d}
}

// Node builds an RCST interior node from ordered children.
func Node(m Metadata, children ...RCST) RCST {
	return RCST{leaf: false, meta: m, children: children}
}

// IsLeaf reports whether r is a leaf.
func (r RCST) IsLeaf() bool { return r.leaf }

// Data returns the leaf payload; only meaningful when IsLeaf is true.
func (r RCST) Data() Data { return r.data }

// Metadata returns the node metadata; only meaningful when IsLeaf is false.
func (r RCST) Metadata() Metadata { return r.meta }

// Children returns the node's ordered children; only meaningful when
// IsLeaf is false.
func (r RCST) Children() []RCST { return r.children }

// Equal reports whether two RCSTs are structurally identical.
func (r RCST) Equal(o RCST) bool {
	if r.leaf != o.leaf {
		return false
	}
	if r.leaf {
		return r.data == o.data
	}
	if r.meta != o.meta || len(r.children) != len(o.children) {
		return false
	}
	for i := range r.children {
		if !r.children[i].Equal(o.children[i]) {
			return false
		}
	}
	return true
}
