package binary

import (
	"encoding/binary"
	"io"
)

// ReadUint64 reads a BigEndian uint64 from r.
func ReadUint64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

// ReadUint32 reads a BigEndian uint32 from r.
func ReadUint32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

// ReadUint16 reads a BigEndian uint16 from r.
func ReadUint16(r io.Reader) (uint16, error) {
	var v uint16
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

// ReadVariableWidthInt reads back the encoding WriteVariableWidthInt
// produces: each byte but the last carries a continuation bit in its
// high bit, most-significant byte first.
func ReadVariableWidthInt(r io.ByteReader) (int64, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	n := int64(b & 0x7f)
	for b&0x80 != 0 {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}
		n++
		n = (n << 7) | int64(b&0x7f)
	}
	return n, nil
}
