// Package debug has helpers producing human readable dumps of documents and
// pages for the debug report and the dump command.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indent = "  "

// TreeWriter accumulates indented lines of text.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{w: &strings.Builder{}}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) pad(depth int) {
	tw.w.WriteString(strings.Repeat(indent, max(0, depth)))
}

// Line writes formatted line at requested depth.
func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label followed by quoted value, so invisible characters
// in book text are visible in the dump.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.pad(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(quote(value))
	tw.w.WriteByte('\n')
}

// Attrs writes label followed by key=value pairs. Odd trailing key gets
// empty value.
func (tw TreeWriter) Attrs(depth int, label string, kv ...any) {
	tw.pad(depth)
	tw.w.WriteString(label)
	for i := 0; i < len(kv); i += 2 {
		var v any = ""
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		fmt.Fprintf(tw.w, " %v=%v", kv[i], v)
	}
	tw.w.WriteByte('\n')
}

// Rule writes separator line of given width with label in the middle.
func (tw TreeWriter) Rule(width int, label string) {
	if label != "" {
		label = " " + label + " "
	}
	left := max(0, (width-len(label))/2)
	right := max(0, width-len(label)-left)
	tw.w.WriteString(strings.Repeat("-", left))
	tw.w.WriteString(label)
	tw.w.WriteString(strings.Repeat("-", right))
	tw.w.WriteByte('\n')
}

func quote(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
