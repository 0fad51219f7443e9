package css

import (
	"slices"
	"strings"
	"unicode"
)

// MediaQuery represents a parsed @media query condition.
type MediaQuery struct {
	Raw      string         // Original media query string
	Type     string         // Media type (e.g., "screen", "print")
	Negated  bool           // true if "not" modifier was used on main type
	Features []MediaFeature // Additional conditions (e.g., "and (color)")
}

// MediaFeature represents a single media feature condition in a media query.
type MediaFeature struct {
	Name    string // Feature name (e.g., "color")
	Negated bool   // true if "not" modifier was used
}

// Evaluate returns true if this media query matches terminal screen. Feature
// conditions are not supported and never match, so only unconditional
// "screen" and "all" blocks are honored.
func (mq MediaQuery) Evaluate() bool {
	var typeMatches bool
	switch strings.ToLower(mq.Type) {
	case "all", "screen", "":
		typeMatches = true
	}
	if mq.Negated {
		typeMatches = !typeMatches
	}
	if !typeMatches {
		return false
	}
	for _, f := range mq.Features {
		if !f.Negated {
			return false
		}
	}
	return true
}

// Value represents a parsed CSS property value.
type Value struct {
	Raw       string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value     float64 // Numeric value if applicable
	Unit      string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword   string  // Keyword if applicable: "bold", "italic", "center", etc.
	Important bool    // Declared with !important
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Keywords splits multi-value keyword into lowercase parts, commas are
// treated as separators.
func (v Value) Keywords() []string {
	return strings.FieldsFunc(strings.ToLower(v.Keyword), func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// Node is a single element on the path from document root, selectors are
// matched against such paths.
type Node struct {
	Element string
	ID      string
	Classes []string
}

// Selector represents a parsed CSS selector with its components.
type Selector struct {
	Raw      string    // Original selector string
	Element  string    // Element name (e.g., "p", "h1") or empty
	Class    string    // Class name without dot (e.g., "note") or empty
	ID       string    // Identifier without hash or empty
	Ancestor *Selector // Ancestor selector for descendant selectors (e.g., "p code" -> Ancestor is "p")
}

// IsSimple returns true if this selector could be matched against an element.
func (s Selector) IsSimple() bool {
	return s.Element != "" || s.Class != "" || s.ID != ""
}

// IsDescendant returns true if this is a descendant selector.
func (s Selector) IsDescendant() bool {
	return s.Ancestor != nil
}

func (s Selector) matchesNode(n Node) bool {
	if s.Element != "" && s.Element != "*" && !strings.EqualFold(s.Element, n.Element) {
		return false
	}
	if s.ID != "" && s.ID != n.ID {
		return false
	}
	if s.Class != "" && !slices.Contains(n.Classes, s.Class) {
		return false
	}
	return true
}

// Matches reports whether selector applies to the last node of the path,
// ancestors are searched towards the root.
func (s Selector) Matches(path []Node) bool {
	if len(path) == 0 || !s.IsSimple() || !s.matchesNode(path[len(path)-1]) {
		return false
	}
	if s.Ancestor == nil {
		return true
	}
	for i := len(path) - 2; i >= 0; i-- {
		if s.Ancestor.Matches(path[:i+1]) {
			return true
		}
	}
	return false
}

// Rule represents a single CSS rule (selector + properties).
type Rule struct {
	Selector   Selector         // Parsed selector
	Properties map[string]Value // Property name -> value
}

// GetProperty returns the value for a property, or empty Value if not found.
func (r Rule) GetProperty(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// Stylesheet represents parsed CSS with rules in source order. Rules from
// @media blocks which apply to the screen are included in place.
type Stylesheet struct {
	Rules    []Rule
	Imports  []string
	Warnings []string
}

// Append adds rules of another stylesheet after the ones already present.
func (s *Stylesheet) Append(o *Stylesheet) {
	if o == nil {
		return
	}
	s.Rules = append(s.Rules, o.Rules...)
	s.Imports = append(s.Imports, o.Imports...)
	s.Warnings = append(s.Warnings, o.Warnings...)
}

// Match returns rules applicable to the last node of the path in source
// order.
func (s *Stylesheet) Match(path []Node) []Rule {
	if s == nil {
		return nil
	}
	var matches []Rule
	for _, r := range s.Rules {
		if r.Selector.Matches(path) {
			matches = append(matches, r)
		}
	}
	return matches
}

// RulesBySelector returns all rules with given selector string.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, r := range s.Rules {
		if r.Selector.Raw == selector {
			matches = append(matches, r)
		}
	}
	return matches
}

// Declarations are resolved properties of a single element.
type Declarations map[string]Value

// Cascade resolves properties from matched rules (in source order) and
// inline declarations. Important declarations take precedence over normal
// ones, later declarations override earlier ones of equal importance.
func Cascade(rules []Rule, inline Declarations) Declarations {
	out := make(Declarations)
	set := func(props map[string]Value) {
		for name, v := range props {
			if old, ok := out[name]; ok && old.Important && !v.Important {
				continue
			}
			out[name] = v
		}
	}
	for _, r := range rules {
		set(r.Properties)
	}
	set(inline)
	return out
}
