// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package securejoin joins a untrusted path fragment onto a trusted
// root directory, resolving any symlinks encountered along the way
// without ever letting the result escape the root. It is the same
// contract as the well known filepath-securejoin libraries: the
// returned path is guaranteed to be a descendant of root, even in the
// presence of ".." components or symlinks pointing outside of it.
package securejoin

import (
	"os"
	"path/filepath"
	"strings"
)

// maxSymlinkDepth bounds the total number of symlinks resolved while
// walking the path, guarding against symlink loops.
const maxSymlinkDepth = 255

// SecureJoin joins unsafePath onto root, resolving symlinks
// component-by-component so the final path cannot reference anything
// outside root. It does not require the path to exist: non-existent
// components are treated as plain (non-symlink) path segments.
func SecureJoin(root, unsafePath string) (string, error) {
	root = filepath.Clean(root)

	unsafePath = filepath.ToSlash(unsafePath)
	var linksWalked int
	currentPath := ""

	remaining := unsafePath
	for remaining != "" {
		var part string
		if i := strings.IndexByte(remaining, '/'); i >= 0 {
			part, remaining = remaining[:i], remaining[i+1:]
		} else {
			part, remaining = remaining, ""
		}
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			currentPath = filepath.Dir(currentPath)
			if currentPath == "." || currentPath == string(filepath.Separator) {
				currentPath = ""
			}
			continue
		}

		candidate := filepath.Join(root, currentPath, part)

		fi, err := os.Lstat(candidate)
		if err != nil {
			// Component does not exist yet: keep it as-is and carry on,
			// the caller may be about to create it.
			currentPath = filepath.Join(currentPath, part)
			continue
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			currentPath = filepath.Join(currentPath, part)
			continue
		}

		linksWalked++
		if linksWalked > maxSymlinkDepth {
			return "", &os.PathError{Op: "securejoin", Path: unsafePath, Err: os.ErrInvalid}
		}

		target, err := os.Readlink(candidate)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(target) {
			// Absolute symlink targets are re-rooted under root rather
			// than followed into the host filesystem.
			remaining = strings.TrimPrefix(filepath.ToSlash(target), "/") + "/" + remaining
			currentPath = ""
			continue
		}
		remaining = filepath.ToSlash(target) + "/" + remaining
	}

	return filepath.Join(root, currentPath), nil
}
