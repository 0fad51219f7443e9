package tui

import (
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// StatusValues are available to the status line template.
type StatusValues struct {
	Title    string
	Book     int
	Books    int
	BookName string
	Chapter  int
	Chapters int
	Line     int
	Lines    int
	Percent  int
	State    string
	Hits     int
	Scanning bool
	Message  string
}

// ParseStatus compiles status line template, slim-sprig functions are
// available.
func ParseStatus(text string) (*template.Template, error) {
	tmpl, err := template.New("status").Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse status template: %w", err)
	}
	return tmpl, nil
}

func expandStatus(tmpl *template.Template, values StatusValues) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, values); err != nil {
		return "", fmt.Errorf("unable to expand status template: %w", err)
	}
	// status is a single row
	return strings.NewReplacer("\r", "", "\n", " ").Replace(sb.String()), nil
}
