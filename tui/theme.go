package tui

import (
	"github.com/charmbracelet/lipgloss"

	"ebr/book"
	"ebr/config"
)

// Styles is a resolved color scheme.
type Styles struct {
	// Palette is what layout resolves unstyled text to, document colors
	// equal to it are not painted.
	Palette book.Palette

	Text      lipgloss.Style
	Status    lipgloss.Style
	Message   lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
	Image     lipgloss.Style
	Border    lipgloss.Style
	Highlight lipgloss.Style
	Help      lipgloss.Style
}

var (
	darkPalette = book.Palette{
		Foreground: book.Color{R: 0xd0, G: 0xd0, B: 0xd0},
		Background: book.Color{R: 0x1c, G: 0x1c, B: 0x1c},
		Family:     book.FamilySerif,
	}
	lightPalette = book.Palette{
		Foreground: book.Color{R: 0x20, G: 0x20, B: 0x20},
		Background: book.Color{R: 0xfa, G: 0xfa, B: 0xfa},
		Family:     book.FamilySerif,
	}
)

// NewStyles builds styles for the theme, auto theme is resolved using dark.
func NewStyles(theme config.Theme, dark bool) Styles {
	var (
		p      book.Palette
		muted  lipgloss.Color
		accent lipgloss.Color
		errc   lipgloss.Color
	)
	switch theme.Resolve(dark) {
	case config.ThemeLight:
		p, muted, accent, errc = lightPalette, "#6b7280", "#1d4ed8", "#b91c1c"
	default:
		p, muted, accent, errc = darkPalette, "#9ca3af", "#06b6d4", "#ef4444"
	}
	fg, bg := lipgloss.Color(p.Foreground.Hex()), lipgloss.Color(p.Background.Hex())

	return Styles{
		Palette:   p,
		Text:      lipgloss.NewStyle().Foreground(fg).Background(bg),
		Status:    lipgloss.NewStyle().Foreground(bg).Background(muted),
		Message:   lipgloss.NewStyle().Foreground(accent),
		Error:     lipgloss.NewStyle().Foreground(errc).Bold(true),
		Prompt:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		Image:     lipgloss.NewStyle().Foreground(accent),
		Border:    lipgloss.NewStyle().Foreground(muted),
		Highlight: lipgloss.NewStyle().Reverse(true),
		Help:      lipgloss.NewStyle().Padding(1, 2),
	}
}

// char returns style of the character run.
func (s Styles) char(rs book.ResolvedStyle) lipgloss.Style {
	st := s.Text
	if rs.Image != "" {
		st = s.Image
	}
	if rs.Color != s.Palette.Foreground {
		st = st.Foreground(lipgloss.Color(rs.Color.Hex()))
	}
	if rs.Highlighted {
		st = st.Background(lipgloss.Color(rs.Background.Hex()))
	}
	return st.
		Bold(rs.Bold || rs.Level > book.NormalLevel).
		Italic(rs.Italic).
		Faint(rs.Level < book.NormalLevel).
		Underline(rs.Link != "" || rs.Decoration.Has(book.DecorUnderline)).
		Strikethrough(rs.Decoration.Has(book.DecorLineThrough))
}
