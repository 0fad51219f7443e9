package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ebr/book"
	"ebr/layout"
	"ebr/reader"
)

const (
	imageGlyph  = "▣"
	borderGlyph = "▏"
)

// run is a piece of render line drawn with the same style.
type run struct {
	style       book.ResolvedStyle
	highlighted bool
	text        strings.Builder
}

// renderLine draws wrapped line exactly width cells wide.
func (s Styles) renderLine(rl layout.RenderLine, hl *reader.Highlight, width int) string {
	var (
		sb   strings.Builder
		runs []*run
	)
	for _, c := range rl.Chars {
		lit := hl.Covers(c.Pos)
		if n := len(runs); n == 0 || runs[n-1].style != c.Style || runs[n-1].highlighted != lit {
			runs = append(runs, &run{style: c.Style, highlighted: lit})
		}
		cur := runs[len(runs)-1]
		switch {
		case c.Ch == book.ImageChar:
			cur.text.WriteString(imageGlyph)
		case c.Ch == '\t':
			cur.text.WriteString(strings.Repeat(" ", c.Width))
		default:
			cur.text.WriteRune(c.Ch)
		}
	}

	base := s.Text
	if rl.HasBackground {
		base = base.Background(lipgloss.Color(rl.Background.Hex()))
	}
	used := 0
	if len(rl.Chars) > 0 {
		// indent of the paragraph first line
		if x := rl.Chars[0].X; x > 0 {
			sb.WriteString(base.Render(strings.Repeat(" ", x)))
			used = x
		}
	}
	for _, r := range runs {
		st := s.char(r.style)
		if rl.HasBackground && !r.style.Highlighted {
			st = st.Background(lipgloss.Color(rl.Background.Hex()))
		}
		if r.highlighted {
			st = st.Inherit(s.Highlight).Reverse(true)
		}
		text := r.text.String()
		used += lipgloss.Width(text)
		sb.WriteString(st.Render(text))
	}
	if pad := width - used; pad > 0 {
		sb.WriteString(base.Render(strings.Repeat(" ", pad)))
	}
	return sb.String()
}

// renderPage draws page rows, every row is width cells wide and there are
// exactly height rows. Lines with border get a mark in the left margin.
func (s Styles) renderPage(pg *layout.Page, hl *reader.Highlight, width, height, left int) []string {
	blank := s.Text.Render(strings.Repeat(" ", width))
	margin := func(border bool) string {
		if left <= 0 {
			return ""
		}
		if border {
			return s.Text.Render(strings.Repeat(" ", left-1)) + s.Border.Inherit(s.Text).Render(borderGlyph)
		}
		return s.Text.Render(strings.Repeat(" ", left))
	}

	rows := make([]string, 0, height)
	if pg != nil {
		for _, rl := range pg.Lines {
			for i := range rl.Extent() {
				if len(rows) == height {
					break
				}
				if i == 0 {
					rows = append(rows, margin(rl.Border)+s.renderLine(rl, hl, width))
					continue
				}
				rows = append(rows, margin(false)+blank)
			}
		}
	}
	for len(rows) < height {
		rows = append(rows, margin(false)+blank)
	}
	return rows
}
