// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package progressbar renders a single-line, ANSI terminal progress
// bar; when the total is unknown it draws an empty bar. It is
// deliberately small: one writer, one bar, no nested groups.
package progressbar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Theme controls the characters used to draw the filled/empty bar.
type Theme struct {
	Saucer        string
	SaucerHead    string
	SaucerPadding string
	BarStart      string
	BarEnd        string
}

var defaultTheme = Theme{
	Saucer:        "=",
	SaucerHead:    ">",
	SaucerPadding: " ",
	BarStart:      "[",
	BarEnd:        "]",
}

// Option configures a ProgressBar at construction time.
type Option func(*ProgressBar)

func OptionSetWriter(w io.Writer) Option { return func(b *ProgressBar) { b.w = w } }
func OptionSetDescription(s string) Option {
	return func(b *ProgressBar) { b.description = s }
}
func OptionSetTheme(t Theme) Option       { return func(b *ProgressBar) { b.theme = t } }
func OptionFullWidth() Option             { return func(b *ProgressBar) { b.fullWidth = true } }
func OptionSetWidth(w int) Option         { return func(b *ProgressBar) { b.width = w } }
func OptionEnableColorCodes(bool) Option  { return func(*ProgressBar) {} }
func OptionUseANSICodes(bool) Option      { return func(*ProgressBar) {} }
func OptionShowBytes(bool) Option         { return func(b *ProgressBar) { b.showBytes = true } }
func OptionShowTotalBytes(bool) Option    { return func(b *ProgressBar) { b.showBytes = true } }
func OptionShowCount() Option             { return func(b *ProgressBar) { b.showCount = true } }
func OptionSpinnerType(int) Option        { return func(*ProgressBar) {} }
func OptionSetRenderBlankState(bool) Option {
	return func(b *ProgressBar) { b.renderBlank = true }
}
func OptionThrottle(d time.Duration) Option { return func(b *ProgressBar) { b.throttle = d } }
func OptionSeekTo(n int64) Option           { return func(b *ProgressBar) { b.current = n } }
func OptionOnCompletion(fn func()) Option {
	return func(b *ProgressBar) { b.onCompletion = fn }
}

// ProgressBar renders to an underlying writer on every Add/Write call,
// throttled to at most once per throttle interval.
type ProgressBar struct {
	mu           sync.Mutex
	w            io.Writer
	description  string
	theme        Theme
	total        int64
	current      int64
	indefinite   bool
	fullWidth    bool
	width        int
	showBytes    bool
	showCount    bool
	renderBlank  bool
	throttle     time.Duration
	lastRender   time.Time
	onCompletion func()
	done         bool
}

func newBar(total int64, opts ...Option) *ProgressBar {
	b := &ProgressBar{
		w:     os.Stderr,
		theme: defaultTheme,
		total: total,
		width: 40,
	}
	for _, opt := range opts {
		opt(b)
	}
	if total < 0 {
		b.indefinite = true
	}
	if b.renderBlank {
		b.render()
	}
	return b
}

// NewOptions builds a bar with a known, finite total.
func NewOptions(total int, opts ...Option) *ProgressBar {
	return newBar(int64(total), opts...)
}

// NewOptions64 builds a bar whose total may be unknown (negative).
func NewOptions64(total int64, opts ...Option) *ProgressBar {
	return newBar(total, opts...)
}

func (b *ProgressBar) Write(p []byte) (int, error) {
	if err := b.Add(len(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (b *ProgressBar) Add(n int) error {
	b.mu.Lock()
	b.current += int64(n)
	due := b.throttle == 0 || time.Since(b.lastRender) >= b.throttle
	b.mu.Unlock()
	if due {
		b.render()
	}
	return nil
}

func (b *ProgressBar) render() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	b.lastRender = time.Now()
	width := b.width
	if b.fullWidth {
		width = 40
	}
	var bar string
	if b.indefinite || b.total <= 0 {
		bar = b.theme.BarStart + strings.Repeat(b.theme.SaucerPadding, width) + b.theme.BarEnd
	} else {
		filled := int(float64(width) * float64(b.current) / float64(b.total))
		if filled > width {
			filled = width
		}
		empty := width - filled
		var sb strings.Builder
		sb.WriteString(b.theme.BarStart)
		if filled > 0 {
			sb.WriteString(strings.Repeat(b.theme.Saucer, filled-1))
			sb.WriteString(b.theme.SaucerHead)
		}
		sb.WriteString(strings.Repeat(b.theme.SaucerPadding, empty))
		sb.WriteString(b.theme.BarEnd)
		bar = sb.String()
	}
	suffix := ""
	if b.showCount || b.showBytes {
		suffix = fmt.Sprintf(" %d/%d", b.current, b.total)
	}
	fmt.Fprintf(b.w, "\r%s %s%s", b.description, bar, suffix)
}

func (b *ProgressBar) finish() error {
	b.mu.Lock()
	already := b.done
	b.done = true
	b.mu.Unlock()
	if already {
		return nil
	}
	b.render()
	if b.onCompletion != nil {
		b.onCompletion()
	}
	return nil
}

func (b *ProgressBar) Finish() error { return b.finish() }
func (b *ProgressBar) Exit() error   { return b.finish() }
func (b *ProgressBar) Close() error  { return b.finish() }
