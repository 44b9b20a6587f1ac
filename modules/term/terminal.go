package term

import (
	"os"
	"strings"

	"github.com/grove-vcs/grove/modules/strengthen"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Level is the color capability of a terminal stream.
type Level int

const (
	LevelNone Level = iota
	Level256
	Level16M
)

var (
	StderrLevel Level
	StdoutLevel Level
)

func detectTermColorLevel() Level {
	if strengthen.SimpleAtob(os.Getenv("GROVE_FORCE_TRUECOLOR"), false) {
		return Level16M
	}
	if strengthen.SimpleAtob(os.Getenv("NO_COLOR"), false) {
		return LevelNone
	}
	if _, ok := os.LookupEnv("WT_SESSION"); ok {
		return Level16M
	}
	colorTermEnv := os.Getenv("COLORTERM")
	termEnv := os.Getenv("TERM")
	if strings.Contains(termEnv, "24bit") ||
		strings.Contains(termEnv, "truecolor") ||
		strings.Contains(colorTermEnv, "24bit") ||
		strings.Contains(colorTermEnv, "truecolor") {
		return Level16M
	}
	if strings.Contains(termEnv, "256") || strings.Contains(colorTermEnv, "256") {
		return Level256
	}
	return LevelNone
}

func init() {
	level := detectTermColorLevel()
	if IsTerminal(os.Stderr.Fd()) {
		StderrLevel = level
	}
	if IsTerminal(os.Stdout.Fd()) {
		StdoutLevel = level
	}
}

func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func IsNativeTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd)
}

func GetSize(fd int) (width, height int, err error) {
	return term.GetSize(fd)
}
