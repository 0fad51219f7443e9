//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

func invalidFileRune(sym rune) bool {
	return sym == os.PathSeparator || sym == os.PathListSeparator
}

func reservedFileName(string) bool {
	return false
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
