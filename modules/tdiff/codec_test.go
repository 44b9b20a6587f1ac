package tdiff

import (
	"testing"

	"github.com/grove-vcs/grove/modules/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTripRename(t *testing.T) {
	l := fnTree("foo", "1")
	r := fnTree("bar", "9")
	d := Compute(l, r, Options{})

	encoded, err := Encode(d)
	require.NoError(t, err)

	source := []byte("foo\n1\n") // stand-in for the base source backing l's byte ranges
	decoded, err := Decode(encoded, source)
	require.NoError(t, err)
	assert.True(t, d.Equal(decoded))
}

func TestCodecRoundTripInsert(t *testing.T) {
	l := cst.ToBCST(cst.Node(cst.Metadata{Kind: kindBody}, tok(kindNumber, "1", true)))
	r := cst.ToBCST(cst.Node(cst.Metadata{Kind: kindBody},
		tok(kindNumber, "5", true),
		tok(kindNumber, "3", true),
	))
	d := Compute(l, r, Options{})

	encoded, err := Encode(d)
	require.NoError(t, err)
	decoded, err := Decode(encoded, []byte("1"))
	require.NoError(t, err)
	assert.True(t, d.Equal(decoded))
}

func TestCodecRejectsTruncatedStream(t *testing.T) {
	l := fnTree("foo", "1")
	r := fnTree("bar", "9")
	d := Compute(l, r, Options{})

	encoded, err := Encode(d)
	require.NoError(t, err)
	_, err = Decode(encoded[:len(encoded)/2], []byte("foo\n1\n"))
	require.Error(t, err)
}

func TestCodecDeterministicBytes(t *testing.T) {
	l := fnTree("foo", "1")
	r := fnTree("bar", "9")
	d := Compute(l, r, Options{})

	a, err := Encode(d)
	require.NoError(t, err)
	b, err := Encode(d)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
