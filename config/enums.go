package config

// Color scheme used by the terminal front-end.
// ENUM(auto, dark, light)
type Theme int

func (t Theme) Resolve(dark bool) Theme {
	if t != ThemeAuto {
		return t
	}
	if dark {
		return ThemeDark
	}
	return ThemeLight
}
