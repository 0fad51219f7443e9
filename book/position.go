// Package book defines styled document model shared by loaders, layout engine
// and reader.
package book

import (
	"cmp"
	"fmt"
)

// Position addresses a character in the document: Offset is index of a
// character (not byte) inside Line.
type Position struct {
	Line   int `json:"line"`
	Offset int `json:"offset"`
}

// Compare orders positions by line first, then by offset.
func (p Position) Compare(o Position) int {
	if c := cmp.Compare(p.Line, o.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Offset, o.Offset)
}

func (p Position) Before(o Position) bool {
	return p.Compare(o) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Offset)
}
