package cst

// ParserNode is the capability set any parsing backend must expose for its
// concrete syntax tree nodes. The core stays agnostic of any specific
// parser implementation; this is the only seam it depends on.
type ParserNode interface {
	// Kind is a dense, small, non-negative integer identifying the node's
	// grammar production. Must be representable in 16 bits.
	Kind() int
	// Named reports whether the node is a grammar production (true) or an
	// anonymous token/punctuation (false).
	Named() bool
	StartByte() int
	EndByte() int
	StartPoint() (row, col int)
	EndPoint() (row, col int)
	ChildCount() int
	Child(i int) ParserNode
}

// FromParserNode walks a parser node tree and builds the corresponding
// RCST, slicing leaf text directly out of source.
func FromParserNode(n ParserNode, source []byte) RCST {
	if n.ChildCount() == 0 {
		return Leaf(dataFromNode(n, source))
	}
	children := make([]RCST, n.ChildCount())
	for i := range children {
		children[i] = FromParserNode(n.Child(i), source)
	}
	return Node(Metadata{Kind: Kind(n.Kind())}, children...)
}

func dataFromNode(n ParserNode, source []byte) Data {
	sb, eb := n.StartByte(), n.EndByte()
	sr, sc := n.StartPoint()
	er, ec := n.EndPoint()
	return Data{
		Kind:      Kind(n.Kind()),
		RowStart:  sr,
		ColStart:  sc,
		RowEnd:    er,
		ColEnd:    ec,
		ByteStart: sb,
		ByteEnd:   eb,
		Text:      string(source[sb:eb]),
		Named:     n.Named(),
	}
}
