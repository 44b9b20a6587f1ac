package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leafData(kind Kind, text string, named bool) Data {
	return Data{Kind: kind, Text: text, Named: named, ByteEnd: len(text), ColEnd: len(text)}
}

func TestBCSTRoundTripLeaf(t *testing.T) {
	r := Leaf(leafData(1, "x", true))
	b := ToBCST(r)
	require.True(t, b.IsLeaf())
	assert.True(t, ToRCST(b).Equal(r))
}

func TestBCSTRoundTripEmptyNode(t *testing.T) {
	r := Node(Metadata{Kind: 10})
	b := ToBCST(r)
	assert.True(t, IsNilLeaf(b.Left()))
	assert.True(t, IsNilLeaf(b.Right()))
	assert.Equal(t, 1, b.Height())
	assert.True(t, ToRCST(b).Equal(r))
}

func TestBCSTRoundTripSingleChild(t *testing.T) {
	child := Leaf(leafData(2, "a", true))
	r := Node(Metadata{Kind: 11}, child)
	b := ToBCST(r)
	assert.True(t, IsNilLeaf(b.Right()))
	assert.True(t, ToRCST(b).Equal(r))
}

func TestBCSTRoundTripManyChildren(t *testing.T) {
	children := []RCST{
		Leaf(leafData(2, "a", true)),
		Leaf(leafData(3, "b", true)),
		Leaf(leafData(4, "c", true)),
	}
	r := Node(Metadata{Kind: 12}, children...)
	b := ToBCST(r)
	got := ToRCST(b)
	require.True(t, got.Equal(r))
	require.Equal(t, 3, len(got.Children()))
	assert.Equal(t, "b", got.Children()[1].Data().Text)
}

func TestRenderReconstructsSource(t *testing.T) {
	fn := Node(Metadata{Kind: 1},
		Leaf(Data{Kind: 2, Text: "pub", Named: false, ColEnd: 3}),
		Leaf(Data{Kind: 3, Text: " foo", Named: true, ColStart: 3, ColEnd: 7}),
	)
	b := ToBCST(fn)
	assert.Equal(t, "pub foo", Render(b))
}
