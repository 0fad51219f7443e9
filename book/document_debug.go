package book

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"ebr/utils/debug"
)

// String returns readable tree of the whole document. It exists solely for
// manual inspection and dump command.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}

	tw := debug.NewTreeWriter()
	tw.TextBlock(0, "Title", d.title)
	tw.Line(0, "Lines: %d", len(d.lines))
	for i, l := range d.lines {
		tw.TextBlock(1, fmt.Sprintf("Line[%d]", i), l.String())
		for _, s := range l.spans {
			tw.Line(2, "[%d, %d) %s", s.Start, s.End, s.Style)
		}
	}

	if len(d.blocks) > 0 {
		tw.Line(0, "Blocks: %d", len(d.blocks))
		for _, b := range d.blocks {
			if b.Kind == BlockKindBackground {
				tw.Line(1, "%s lines[%d..%d] %s", b.Kind, b.First, b.Last, b.Color)
				continue
			}
			tw.Line(1, "%s lines[%d..%d]", b.Kind, b.First, b.Last)
		}
	}

	if len(d.anchors) > 0 {
		tw.Line(0, "Anchors: %d", len(d.anchors))
		keys := slices.Collect(maps.Keys(d.anchors))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.Line(1, "Anchor[%q] at %s", k, d.anchors[k])
		}
	}
	return tw.String()
}
