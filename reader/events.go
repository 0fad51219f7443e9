package reader

import (
	"fmt"

	"ebr/layout"
)

// Event is a discrete user input handled by Dispatch.
type Event interface {
	isEvent()
}

type (
	PageEvent     struct{ Forward bool }
	LineEvent     struct{ Forward bool }
	ChapterEvent  struct{ Forward bool }
	EdgeEvent     struct{ End bool }
	SearchEvent   struct{ Expr string }
	RepeatEvent   struct{ Forward bool }
	LinkEvent     struct{ Forward bool }
	FollowEvent   struct{}
	SentenceEvent struct{ Forward bool }
	TraceEvent    struct{ Back bool }
	GotoLineEvent struct{ Line int }
	ResizeEvent   struct{ Viewport layout.Viewport }
	ClearEvent    struct{}
	MouseEvent    struct {
		X, Y   int
		Action MouseAction
	}
)

// MouseAction is phase of the mouse gesture.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseDrag
	MouseRelease
)

func (PageEvent) isEvent()     {}
func (LineEvent) isEvent()     {}
func (ChapterEvent) isEvent()  {}
func (EdgeEvent) isEvent()     {}
func (SearchEvent) isEvent()   {}
func (RepeatEvent) isEvent()   {}
func (LinkEvent) isEvent()     {}
func (FollowEvent) isEvent()   {}
func (SentenceEvent) isEvent() {}
func (TraceEvent) isEvent()    {}
func (GotoLineEvent) isEvent() {}
func (ResizeEvent) isEvent()   {}
func (ClearEvent) isEvent()    {}
func (MouseEvent) isEvent()    {}

// Dispatch executes single event. Controller is back to Idle when it
// returns, except for mouse drag selection in progress.
func (c *Controller) Dispatch(ev Event) error {
	switch e := ev.(type) {
	case PageEvent:
		if e.Forward {
			return c.NextPage()
		}
		return c.PrevPage()
	case LineEvent:
		if e.Forward {
			return c.NextLine()
		}
		return c.PrevLine()
	case ChapterEvent:
		if e.Forward {
			return c.NextChapter()
		}
		return c.PrevChapter()
	case EdgeEvent:
		if e.End {
			return c.LastPage()
		}
		return c.FirstPage()
	case SearchEvent:
		return c.Search(e.Expr)
	case RepeatEvent:
		return c.SearchAgain(e.Forward)
	case LinkEvent:
		return c.SwitchLink(e.Forward)
	case FollowEvent:
		return c.TryGotoLink()
	case SentenceEvent:
		return c.SwitchSentence(e.Forward)
	case TraceEvent:
		return c.GotoTrace(e.Back)
	case GotoLineEvent:
		return c.GotoLine(e.Line)
	case ResizeEvent:
		c.Resize(e.Viewport)
		return nil
	case ClearEvent:
		c.ClearHighlight()
		return nil
	case MouseEvent:
		return c.mouse(e)
	}
	return fmt.Errorf("unknown event %T", ev)
}

func (c *Controller) mouse(e MouseEvent) error {
	if err := c.ready(); err != nil {
		return err
	}
	p, onText := c.page.At(e.X, e.Y)
	switch e.Action {
	case MousePress:
		if onText {
			c.BeginSelection(p)
		}
	case MouseDrag:
		if onText {
			c.ExtendSelection(p)
		}
	case MouseRelease:
		if c.state != StateSelecting {
			return nil
		}
		if !c.dragged {
			// plain click
			c.state, c.hl = StateIdle, nil
			if target, ok := c.LinkAt(e.X, e.Y); ok {
				return c.Follow(target)
			}
			return nil
		}
		c.EndSelection()
	}
	return nil
}
