package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

func colorize(code string, text string) string {
	return code + text + ansiReset
}

// resolveColorChoice decides whether output to out should be colored:
// an explicit opt-out wins, then the NO_COLOR convention, then a TTY check.
func resolveColorChoice(forceNoColor bool, out io.Writer) bool {
	if forceNoColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(out)
}

// IsTerminal reports whether out is attached to a terminal.
func IsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
