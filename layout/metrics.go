package layout

import (
	"math"

	"github.com/mattn/go-runewidth"

	"ebr/book"
)

// TabWidth is number of cells tab character advances.
const TabWidth = 4

// Metrics measures characters in abstract units. Layout only compares and
// adds values it returns, units are up to the renderer.
type Metrics interface {
	Advance(r rune, st book.ResolvedStyle) int
	Height(st book.ResolvedStyle) int
}

// CellMetrics measures text for terminal: every character takes one or two
// cells and every line is a single row, font scale is ignored.
type CellMetrics struct{}

func (CellMetrics) Advance(r rune, _ book.ResolvedStyle) int {
	return cellWidth(r)
}

func (CellMetrics) Height(book.ResolvedStyle) int {
	return 1
}

func cellWidth(r rune) int {
	switch r {
	case '\t':
		return TabWidth
	case book.ImageChar:
		return 1
	}
	return runewidth.RuneWidth(r)
}

// GridMetrics measures text on a glyph grid where font scale changes both
// advance and line height.
type GridMetrics struct {
	Cell int // advance of a single cell at normal size
	Line int // line height at normal size
}

func (g GridMetrics) Advance(r rune, st book.ResolvedStyle) int {
	return int(math.Ceil(float64(g.Cell*cellWidth(r)) * st.Scale()))
}

func (g GridMetrics) Height(st book.ResolvedStyle) int {
	return int(math.Ceil(float64(g.Line) * st.Scale()))
}
