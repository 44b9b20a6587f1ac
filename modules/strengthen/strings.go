// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package strengthen collects the small string, size and path helpers the
// rest of the tree reaches for instead of re-deriving them locally.
package strengthen

import (
	"bytes"
	"strings"
)

// BufferCat concatenates sv with a single allocation sized to fit.
func BufferCat(sv ...string) []byte {
	var buf bytes.Buffer
	var size int
	for _, s := range sv {
		size += len(s)
	}
	buf.Grow(size)
	for _, s := range sv {
		_, _ = buf.WriteString(s)
	}
	return buf.Bytes()
}

// SimpleAtob parses loose boolean spellings, falling back to dv when s
// matches none of them.
func SimpleAtob(s string, dv bool) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}
	return dv
}

// Byte-size magnitudes, biggest unit first in the source but smallest here
// to keep iota meaningful.
const (
	_ = 1 << (10 * iota)
	KiByte
	MiByte
	GiByte
	TiByte
)
