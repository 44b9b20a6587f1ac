package tdiff

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/grove-vcs/grove/modules/cst"
)

// ErrStructuralDecode reports that a serialized diff violates the format
// grammar (truncated stream, out-of-range table index, unknown tag).
var ErrStructuralDecode = errors.New("tdiff: malformed diff byte stream")

// Tree node tags.
const (
	leafTag byte = 0
	nodeTag byte = 1
)

// Diff tags, per the wire format: Err is never serialized.
const (
	wireEps  byte = 0
	wireRMod byte = 1
	wireTEps byte = 2
	wireMod  byte = 3
	wireTMod byte = 4
	wireAddL byte = 5
	wireAddR byte = 6
	wireDelL byte = 7
	wireDelR byte = 8
)

// rangeKey captures a leaf's position and kind, interned once per distinct
// value and referenced by table index from the diff body.
type rangeKey struct {
	kind                                                   int32
	named                                                  bool
	rowStart, colStart, rowEnd, colEnd, byteStart, byteEnd int32
}

// textKey additionally carries the leaf's text, used for leaves that
// appear on a "new" (to) position where the text cannot be recovered from
// the base source.
type textKey struct {
	rangeKey
	text string
}

func rangeKeyOf(d cst.Data) rangeKey {
	return rangeKey{
		kind:      int32(d.Kind),
		named:     d.Named,
		rowStart:  int32(d.RowStart),
		colStart:  int32(d.ColStart),
		rowEnd:    int32(d.RowEnd),
		colEnd:    int32(d.ColEnd),
		byteStart: int32(d.ByteStart),
		byteEnd:   int32(d.ByteEnd),
	}
}

func dataFromRangeKey(k rangeKey) cst.Data {
	return cst.Data{
		Kind:      cst.Kind(k.kind),
		Named:     k.named,
		RowStart:  int(k.rowStart),
		ColStart:  int(k.colStart),
		RowEnd:    int(k.rowEnd),
		ColEnd:    int(k.colEnd),
		ByteStart: int(k.byteStart),
		ByteEnd:   int(k.byteEnd),
	}
}

// --- encoding ---------------------------------------------------------

type encoder struct {
	body     bytes.Buffer
	rangeIdx map[rangeKey]uint32
	ranges   []rangeKey
	textIdx  map[textKey]uint32
	texts    []textKey
}

func newEncoder() *encoder {
	return &encoder{rangeIdx: map[rangeKey]uint32{}, textIdx: map[textKey]uint32{}}
}

func (e *encoder) internRange(d cst.Data) uint32 {
	k := rangeKeyOf(d)
	if i, ok := e.rangeIdx[k]; ok {
		return i
	}
	i := uint32(len(e.ranges))
	e.ranges = append(e.ranges, k)
	e.rangeIdx[k] = i
	return i
}

func (e *encoder) internText(d cst.Data) uint32 {
	k := textKey{rangeKey: rangeKeyOf(d), text: d.Text}
	if i, ok := e.textIdx[k]; ok {
		return i
	}
	i := uint32(len(e.texts))
	e.texts = append(e.texts, k)
	e.textIdx[k] = i
	return i
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeI32(buf *bytes.Buffer, v int32) { writeU32(buf, uint32(v)) }

// writeKind writes a cst.Kind with a +1 bias so the wire value 0 is
// reserved for "no kind" (SPEC_FULL §4.6); readKind reverses it.
func writeKind(buf *bytes.Buffer, k cst.Kind) { writeI32(buf, int32(k)+1) }

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func writeRangeKey(buf *bytes.Buffer, k rangeKey) {
	writeI32(buf, k.kind+1)
	writeBool(buf, k.named)
	writeI32(buf, k.rowStart)
	writeI32(buf, k.colStart)
	writeI32(buf, k.rowEnd)
	writeI32(buf, k.colEnd)
	writeI32(buf, k.byteStart)
	writeI32(buf, k.byteEnd)
}

// writeTree serializes a full BCST. newSide selects which interning table
// its leaves fall into: true for a "to"/new-position tree (text table),
// false for a "from" tree (range table, text recovered from source).
func (e *encoder) writeTree(t *cst.BCST, newSide bool) {
	if t.IsLeaf() {
		e.body.WriteByte(leafTag)
		d := t.Data()
		if newSide {
			writeBool(&e.body, true)
			writeU32(&e.body, e.internText(d))
		} else {
			writeBool(&e.body, false)
			writeU32(&e.body, e.internRange(d))
		}
		return
	}
	e.body.WriteByte(nodeTag)
	writeU32(&e.body, uint32(t.Height()))
	writeKind(&e.body, t.Metadata().Kind)
	e.writeTree(t.Left(), newSide)
	e.writeTree(t.Right(), newSide)
}

func (e *encoder) writeDiff(d *Diff) error {
	switch d.Tag {
	case TagEps:
		e.body.WriteByte(wireEps)
	case TagRMod:
		e.body.WriteByte(wireRMod)
		writeU32(&e.body, e.internText(d.NewLeaf))
	case TagTEps:
		e.body.WriteByte(wireTEps)
		writeKind(&e.body, d.Meta.Kind)
		if err := e.writeDiff(d.Left); err != nil {
			return err
		}
		if err := e.writeDiff(d.Right); err != nil {
			return err
		}
	case TagMod:
		e.body.WriteByte(wireMod)
		e.writeTree(d.From, false)
		e.writeTree(d.To, true)
	case TagTMod:
		e.body.WriteByte(wireTMod)
		writeKind(&e.body, d.FromMeta.Kind)
		writeKind(&e.body, d.ToMeta.Kind)
		if err := e.writeDiff(d.Left); err != nil {
			return err
		}
		if err := e.writeDiff(d.Right); err != nil {
			return err
		}
	case TagAddL:
		e.body.WriteByte(wireAddL)
		writeKind(&e.body, d.AddMeta.Kind)
		e.writeTree(d.NewTree, true)
		if err := e.writeDiff(d.Inner); err != nil {
			return err
		}
	case TagAddR:
		e.body.WriteByte(wireAddR)
		writeKind(&e.body, d.AddMeta.Kind)
		if err := e.writeDiff(d.Inner); err != nil {
			return err
		}
		e.writeTree(d.NewTree, true)
	case TagDelL:
		e.body.WriteByte(wireDelL)
		if err := e.writeDiff(d.Inner); err != nil {
			return err
		}
	case TagDelR:
		e.body.WriteByte(wireDelR)
		if err := e.writeDiff(d.Inner); err != nil {
			return err
		}
	case TagErr:
		return errors.New("tdiff: cannot serialize an unresolved merge conflict")
	default:
		return errors.New("tdiff: unknown diff tag")
	}
	return nil
}

// Encode serializes d into the deterministic binary format: the range
// table, the text table, then the diff body referencing them by index.
// Two calls on an equal diff always produce identical bytes.
func Encode(d *Diff) ([]byte, error) {
	e := newEncoder()
	if err := e.writeDiff(d); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	writeU32(&out, uint32(len(e.ranges)))
	for _, k := range e.ranges {
		writeRangeKey(&out, k)
	}
	writeU32(&out, uint32(len(e.texts)))
	for _, k := range e.texts {
		writeRangeKey(&out, k.rangeKey)
		writeString(&out, k.text)
	}
	out.Write(e.body.Bytes())
	return out.Bytes(), nil
}

// --- decoding -----------------------------------------------------------

type decoder struct {
	data   []byte
	pos    int
	ranges []rangeKey
	texts  []textKey
	source []byte
}

func (r *decoder) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrStructuralDecode
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *decoder) readU32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, ErrStructuralDecode
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *decoder) readI32() (int32, error) {
	v, err := r.readU32()
	return int32(v), err
}

func (r *decoder) readKind() (cst.Kind, error) {
	v, err := r.readI32()
	if err != nil {
		return 0, err
	}
	return cst.Kind(v - 1), nil
}

func (r *decoder) readBool() (bool, error) {
	b, err := r.readByte()
	return b != 0, err
}

func (r *decoder) readString() (string, error) {
	n, err := r.readU32()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.data) {
		return "", ErrStructuralDecode
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *decoder) readRangeKey() (rangeKey, error) {
	var k rangeKey
	var err error
	kind, err := r.readI32()
	if err != nil {
		return k, err
	}
	k.kind = kind - 1
	if k.named, err = r.readBool(); err != nil {
		return k, err
	}
	if k.rowStart, err = r.readI32(); err != nil {
		return k, err
	}
	if k.colStart, err = r.readI32(); err != nil {
		return k, err
	}
	if k.rowEnd, err = r.readI32(); err != nil {
		return k, err
	}
	if k.colEnd, err = r.readI32(); err != nil {
		return k, err
	}
	if k.byteStart, err = r.readI32(); err != nil {
		return k, err
	}
	if k.byteEnd, err = r.readI32(); err != nil {
		return k, err
	}
	return k, nil
}

func (r *decoder) readTree() (*cst.BCST, error) {
	tag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case leafTag:
		useText, err := r.readBool()
		if err != nil {
			return nil, err
		}
		idx, err := r.readU32()
		if err != nil {
			return nil, err
		}
		if useText {
			if int(idx) >= len(r.texts) {
				return nil, ErrStructuralDecode
			}
			tk := r.texts[idx]
			d := dataFromRangeKey(tk.rangeKey)
			d.Text = tk.text
			return cst.NewLeaf(d), nil
		}
		if int(idx) >= len(r.ranges) {
			return nil, ErrStructuralDecode
		}
		rk := r.ranges[idx]
		d := dataFromRangeKey(rk)
		if !d.IsNil() {
			if d.ByteStart < 0 || d.ByteEnd > len(r.source) || d.ByteStart > d.ByteEnd {
				return nil, ErrStructuralDecode
			}
			d.Text = string(r.source[d.ByteStart:d.ByteEnd])
		}
		return cst.NewLeaf(d), nil
	case nodeTag:
		if _, err := r.readU32(); err != nil { // cached height, recomputed on construction
			return nil, err
		}
		kind, err := r.readKind()
		if err != nil {
			return nil, err
		}
		left, err := r.readTree()
		if err != nil {
			return nil, err
		}
		right, err := r.readTree()
		if err != nil {
			return nil, err
		}
		return cst.NewNode(cst.Metadata{Kind: kind}, left, right), nil
	default:
		return nil, ErrStructuralDecode
	}
}

func (r *decoder) readDiff() (*Diff, error) {
	tag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case wireEps:
		return Eps, nil
	case wireRMod:
		idx, err := r.readU32()
		if err != nil {
			return nil, err
		}
		if int(idx) >= len(r.texts) {
			return nil, ErrStructuralDecode
		}
		tk := r.texts[idx]
		d := dataFromRangeKey(tk.rangeKey)
		d.Text = tk.text
		return NewRMod(d), nil
	case wireTEps:
		kind, err := r.readKind()
		if err != nil {
			return nil, err
		}
		left, err := r.readDiff()
		if err != nil {
			return nil, err
		}
		right, err := r.readDiff()
		if err != nil {
			return nil, err
		}
		return NewTEps(cst.Metadata{Kind: kind}, left, right), nil
	case wireMod:
		from, err := r.readTree()
		if err != nil {
			return nil, err
		}
		to, err := r.readTree()
		if err != nil {
			return nil, err
		}
		return NewMod(from, to), nil
	case wireTMod:
		fromKind, err := r.readKind()
		if err != nil {
			return nil, err
		}
		toKind, err := r.readKind()
		if err != nil {
			return nil, err
		}
		left, err := r.readDiff()
		if err != nil {
			return nil, err
		}
		right, err := r.readDiff()
		if err != nil {
			return nil, err
		}
		return NewTMod(cst.Metadata{Kind: fromKind}, cst.Metadata{Kind: toKind}, left, right), nil
	case wireAddL:
		mk, err := r.readKind()
		if err != nil {
			return nil, err
		}
		newTree, err := r.readTree()
		if err != nil {
			return nil, err
		}
		inner, err := r.readDiff()
		if err != nil {
			return nil, err
		}
		return NewAddL(cst.Metadata{Kind: mk}, newTree, inner), nil
	case wireAddR:
		mk, err := r.readKind()
		if err != nil {
			return nil, err
		}
		inner, err := r.readDiff()
		if err != nil {
			return nil, err
		}
		newTree, err := r.readTree()
		if err != nil {
			return nil, err
		}
		return NewAddR(cst.Metadata{Kind: mk}, inner, newTree), nil
	case wireDelL:
		inner, err := r.readDiff()
		if err != nil {
			return nil, err
		}
		return NewDelL(inner), nil
	case wireDelR:
		inner, err := r.readDiff()
		if err != nil {
			return nil, err
		}
		return NewDelR(inner), nil
	default:
		return nil, ErrStructuralDecode
	}
}

// Decode deserializes a diff previously produced by Encode. source must be
// the same base source text the diff's "from" side was computed against;
// it is used to recover text for leaves stored in the plain range table.
func Decode(data []byte, source []byte) (*Diff, error) {
	r := &decoder{data: data, source: source}
	n, err := r.readU32()
	if err != nil {
		return nil, err
	}
	ranges := make([]rangeKey, n)
	for i := range ranges {
		if ranges[i], err = r.readRangeKey(); err != nil {
			return nil, err
		}
	}
	m, err := r.readU32()
	if err != nil {
		return nil, err
	}
	texts := make([]textKey, m)
	for i := range texts {
		rk, err := r.readRangeKey()
		if err != nil {
			return nil, err
		}
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		texts[i] = textKey{rangeKey: rk, text: s}
	}
	r.ranges = ranges
	r.texts = texts
	return r.readDiff()
}
