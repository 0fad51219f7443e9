package book

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidPosition is returned for positions outside of the document.
var ErrInvalidPosition = errors.New("invalid position")

// NoContent replaces text of a document which has nothing to show.
const NoContent = "[no content]"

// BlockKind tells how block style is drawn.
// ENUM(border, background)
type BlockKind int

// BlockStyle applies to whole lines First..Last inclusive.
type BlockStyle struct {
	Kind  BlockKind
	First int
	Last  int
	Color Color // background only
}

func (b BlockStyle) Covers(line int) bool {
	return line >= b.First && line <= b.Last
}

// Document is an immutable sequence of styled lines produced by Builder.
type Document struct {
	title   string
	lines   []*Line
	anchors map[string]Position
	blocks  []BlockStyle
}

func (d *Document) Title() string {
	return d.title
}

// Len returns number of lines, document always has at least one.
func (d *Document) Len() int {
	return len(d.lines)
}

func (d *Document) Line(i int) *Line {
	return d.lines[i]
}

func (d *Document) Blocks() []BlockStyle {
	return d.blocks
}

// Anchor looks up in-document identifier.
func (d *Document) Anchor(id string) (Position, bool) {
	p, ok := d.anchors[id]
	return p, ok
}

// LineBlocks resolves block styles for a line, later blocks win.
func (d *Document) LineBlocks(line int) (border bool, bg Color, hasBg bool) {
	for _, b := range d.blocks {
		if !b.Covers(line) {
			continue
		}
		switch b.Kind {
		case BlockKindBorder:
			border = true
		case BlockKindBackground:
			bg, hasBg = b.Color, true
		}
	}
	return
}

// Valid reports whether position addresses a character in the document or
// the end of one of its lines.
func (d *Document) Valid(p Position) bool {
	return p.Line >= 0 && p.Line < len(d.lines) && p.Offset >= 0 && p.Offset <= d.lines[p.Line].Len()
}

// Check returns ErrInvalidPosition wrapped with details when position is not
// valid.
func (d *Document) Check(p Position) error {
	if d.Valid(p) {
		return nil
	}
	return fmt.Errorf("%w: %s, document has %d lines", ErrInvalidPosition, p, len(d.lines))
}

// Clamp moves position inside of the document.
func (d *Document) Clamp(p Position) Position {
	p.Line = max(0, min(len(d.lines)-1, p.Line))
	p.Offset = max(0, min(d.lines[p.Line].Len(), p.Offset))
	return p
}

// End is the position right after the last character.
func (d *Document) End() Position {
	last := len(d.lines) - 1
	return Position{Line: last, Offset: d.lines[last].Len()}
}

// Resolve finds position link target points to. Only fragment part of the
// target is considered, targets without fragment or with unknown fragment
// do not resolve.
func (d *Document) Resolve(target string) (Position, bool) {
	_, frag := SplitTarget(target)
	if frag == "" {
		return Position{}, false
	}
	return d.Anchor(frag)
}

// SplitTarget separates link target into resource and fragment parts.
func SplitTarget(target string) (string, string) {
	file, frag, _ := strings.Cut(target, "#")
	return file, frag
}

// IsExternal reports whether link target points outside of the book.
func IsExternal(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Scheme != "file"
}
