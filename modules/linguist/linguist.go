// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package linguist classifies file content as a supported language,
// plaintext, or binary, and feeds that decision to the pipeline
// selector: structural tree diff for a recognized language, the line
// pipeline for plaintext, blob passthrough for binary.
package linguist

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/grove-vcs/grove/modules/chardet"
)

// Kind is the coarse classification linguist assigns to a blob.
type Kind int8

const (
	// KindBinary content has no sensible text rendering.
	KindBinary Kind = iota
	// KindPlain is text linguist could not associate with a known
	// grammar; it still falls back to the line pipeline.
	KindPlain
	// KindLanguage is text recognized as a specific grammar; it is a
	// candidate for the tree pipeline provided the parser backend
	// actually supports it.
	KindLanguage
)

const sniffLen = 8000

// UTF8 is the charset name returned once content has been normalized.
const UTF8 = "UTF-8"

// Binary is the pseudo-charset name used when content is not text.
const Binary = "binary"

// Detection is the result of classifying a blob.
type Detection struct {
	Kind     Kind
	Language string // grammar name, only set when Kind == KindLanguage
	Charset  string // detected charset, UTF8 or Binary when not text
}

// extensions maps a lowercase file extension to the grammar name the
// parser backend is expected to register under. The core only needs
// the name; the parser adapter owns everything else.
var extensions = map[string]string{
	".c":    "c",
	".h":    "c",
	".cc":   "cpp",
	".cpp":  "cpp",
	".hpp":  "cpp",
	".cs":   "c_sharp",
	".go":   "go",
	".rs":   "rust",
	".java": "java",
	".py":   "python",
	".rb":   "ruby",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "tsx",
	".php":  "php",
	".json": "json",
	".toml": "toml",
	".yaml": "yaml",
	".yml":  "yaml",
}

// LanguageByPath returns the grammar name registered for path's
// extension, and whether one was found.
func LanguageByPath(path string) (string, bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", false
	}
	lang, ok := extensions[strings.ToLower(path[i:])]
	return lang, ok
}

// looksBinary reports whether payload contains a NUL byte in its
// first sniffLen bytes. A NUL byte is the same heuristic git and most
// diff tools use to refuse to treat a file as text.
func looksBinary(payload []byte) bool {
	n := len(payload)
	if n > sniffLen {
		n = sniffLen
	}
	return bytes.IndexByte(payload[:n], 0) != -1
}

// Detect classifies path/content for pipeline selection. content may
// be a prefix of the full blob; Detect never needs more than the
// first sniffLen bytes.
func Detect(path string, content []byte) Detection {
	if looksBinary(content) {
		return Detection{Kind: KindBinary, Charset: Binary}
	}
	if !utf8.Valid(content) {
		// NUL-free but not valid UTF-8: treat it as text in an
		// unknown 8-bit charset, reported as an empty Charset. The
		// line pipeline degrades gracefully.
		return Detection{Kind: detectTextKind(path), Charset: ""}
	}
	return Detection{Kind: detectTextKind(path), Charset: UTF8}
}

func detectTextKind(path string) Kind {
	if _, ok := LanguageByPath(path); ok {
		return KindLanguage
	}
	return KindPlain
}

// ReadText normalizes payload to a UTF-8 string given a charset
// returned by Detect. An empty charset (unknown 8-bit), UTF8 and
// Binary return payload unmodified; any other charset is decoded with
// chardet.DecodeFromCharset, and payload is returned unmodified when
// that fails.
func ReadText(payload []byte, charset string) string {
	if charset == "" || charset == UTF8 || charset == Binary {
		return string(payload)
	}
	if decoded, err := chardet.DecodeFromCharset(payload, charset); err == nil {
		return string(decoded)
	}
	return string(payload)
}
