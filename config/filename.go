package config

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFileName is the longest (in bytes) name produced by CleanFileName.
const maxFileName = 200

const badFileName = "_bad_file_name_"

// CleanFileName turns arbitrary text (book title for example) into a name
// which could be used for a file in any directory.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || invalidFileRune(sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimLeft(strings.TrimSpace(out), ".")

	if len(out) > maxFileName {
		cut := maxFileName
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = strings.TrimSpace(out[:cut])
	}
	if len(out) == 0 || reservedFileName(out) {
		return badFileName
	}
	return out
}
