package book

import (
	"fmt"
	"strconv"
)

// Channel identifies independent visual attribute. At most one value of each
// channel is active for any given character.
// ENUM(decoration, border, font_scale, font_weight, font_style, font_family, color, background, image, link)
type Channel int

// Decoration is a set of lines drawn with text.
type Decoration uint8

const (
	DecorUnderline Decoration = 1 << iota
	DecorLineThrough
	DecorOverline

	DecorNone Decoration = 0
)

func (d Decoration) Has(f Decoration) bool {
	return d&f != 0
}

// Family is a generic font family.
// ENUM(serif, sans, monospace)
type Family int

// Color is 24 bits RGB color.
type Color struct {
	R, G, B uint8
}

// Hex returns color in "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

// ParseHex parses "#rgb" and "#rrggbb" notations.
func ParseHex(s string) (Color, bool) {
	if len(s) == 0 || s[0] != '#' {
		return Color{}, false
	}
	s = s[1:]
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// Font scale levels, level 3 is normal text.
const (
	MinLevel    = 1
	NormalLevel = 3
	MaxLevel    = 7
)

var levelScale = [...]float64{3.0 / 5.0, 8.0 / 9.0, 1, 6.0 / 5.0, 3.0 / 2.0, 2, 3}

// LevelScale returns font size multiplier for absolute level, levels outside of
// supported range are clamped.
func LevelScale(level int) float64 {
	level = max(MinLevel, min(MaxLevel, level))
	return levelScale[level-1]
}

// HeadingLevel maps heading rank (1 for h1) to font scale level: h1 is the
// largest.
func HeadingLevel(rank int) int {
	return max(MinLevel, min(MaxLevel, MaxLevel+1-rank))
}

// Style is a single channel value. Only field which corresponds to Channel is
// meaningful, use constructors to create styles.
type Style struct {
	Channel    Channel
	Decoration Decoration
	Level      int
	Bold       bool
	Italic     bool
	Family     Family
	Color      Color
	Target     string // image source or link target
}

func Decorated(d Decoration) Style { return Style{Channel: ChannelDecoration, Decoration: d} }
func Bordered() Style { return Style{Channel: ChannelBorder} }
func FontLevel(level int) Style { return Style{Channel: ChannelFontScale, Level: level} }
func FontWeight(bold bool) Style { return Style{Channel: ChannelFontWeight, Bold: bold} }
func FontItalic(italic bool) Style { return Style{Channel: ChannelFontStyle, Italic: italic} }
func FontFamily(f Family) Style { return Style{Channel: ChannelFontFamily, Family: f} }
func Foreground(c Color) Style { return Style{Channel: ChannelColor, Color: c} }
func Background(c Color) Style { return Style{Channel: ChannelBackground, Color: c} }
func Image(src string) Style { return Style{Channel: ChannelImage, Target: src} }
func Link(target string) Style { return Style{Channel: ChannelLink, Target: target} }

// IsBlock reports whether style could be lifted to whole lines.
func (s Style) IsBlock() bool {
	return s.Channel == ChannelBorder || s.Channel == ChannelBackground
}

func (s Style) String() string {
	switch s.Channel {
	case ChannelDecoration:
		return fmt.Sprintf("%s(%d)", s.Channel, s.Decoration)
	case ChannelFontScale:
		return fmt.Sprintf("%s(%d)", s.Channel, s.Level)
	case ChannelFontWeight:
		return fmt.Sprintf("%s(bold=%t)", s.Channel, s.Bold)
	case ChannelFontStyle:
		return fmt.Sprintf("%s(italic=%t)", s.Channel, s.Italic)
	case ChannelFontFamily:
		return fmt.Sprintf("%s(%s)", s.Channel, s.Family)
	case ChannelColor, ChannelBackground:
		return fmt.Sprintf("%s(%s)", s.Channel, s.Color)
	case ChannelImage, ChannelLink:
		return fmt.Sprintf("%s(%q)", s.Channel, s.Target)
	}
	return s.Channel.String()
}

// Palette supplies values for channels nobody annotated.
type Palette struct {
	Foreground Color
	Background Color
	Family     Family
}

// DefaultPalette is black on white serif.
var DefaultPalette = Palette{
	Foreground: Color{0, 0, 0},
	Background: Color{0xff, 0xff, 0xff},
	Family:     FamilySerif,
}

// ResolvedStyle has exactly one value for every channel.
type ResolvedStyle struct {
	Decoration  Decoration
	Border      bool
	Level       int
	Bold        bool
	Italic      bool
	Family      Family
	Color       Color
	Background  Color
	Highlighted bool // background came from annotation rather than palette
	Image       string
	Link        string
}

// Scale is font size multiplier for resolved level.
func (r ResolvedStyle) Scale() float64 {
	return LevelScale(r.Level)
}

func resolveBase(base Palette) ResolvedStyle {
	return ResolvedStyle{
		Level:      NormalLevel,
		Family:     base.Family,
		Color:      base.Foreground,
		Background: base.Background,
	}
}

// apply folds single channel value into resolved style.
func (r *ResolvedStyle) apply(s Style) {
	switch s.Channel {
	case ChannelDecoration:
		r.Decoration = s.Decoration
	case ChannelBorder:
		r.Border = true
	case ChannelFontScale:
		r.Level = max(MinLevel, min(MaxLevel, s.Level))
	case ChannelFontWeight:
		r.Bold = s.Bold
	case ChannelFontStyle:
		r.Italic = s.Italic
	case ChannelFontFamily:
		r.Family = s.Family
	case ChannelColor:
		r.Color = s.Color
	case ChannelBackground:
		r.Background = s.Color
		r.Highlighted = true
	case ChannelImage:
		r.Image = s.Target
	case ChannelLink:
		r.Link = s.Target
	}
}
