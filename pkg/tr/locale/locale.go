// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package locale detects the user's preferred language from the
// process environment, without touching cgo or platform-specific
// locale services.
package locale

import (
	"errors"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// ErrUndetermined is returned when none of the usual environment
// variables name a usable locale.
var ErrUndetermined = errors.New("locale: unable to determine language from environment")

var envKeys = []string{"LC_ALL", "LC_MESSAGES", "LANG", "LANGUAGE"}

// Detect returns the BCP 47 tag for the user's preferred language,
// derived from LC_ALL, LC_MESSAGES, LANG and LANGUAGE, in that order.
// POSIX locale names such as "zh_CN.UTF-8" are normalized to "zh-CN"
// before parsing.
func Detect() (language.Tag, error) {
	for _, key := range envKeys {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if tag, ok := parsePosix(v); ok {
			return tag, nil
		}
	}
	return language.Und, ErrUndetermined
}

func parsePosix(v string) (language.Tag, bool) {
	// LANGUAGE may carry a colon-separated preference list; take the first.
	if i := strings.IndexByte(v, ':'); i >= 0 {
		v = v[:i]
	}
	// Strip trailing ".UTF-8" / "@modifier" POSIX decorations.
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	v = strings.ReplaceAll(v, "_", "-")
	if v == "" {
		return language.Und, false
	}
	tag, err := language.Parse(v)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
