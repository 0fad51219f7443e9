package reader

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLine     = errors.New("invalid line number")
	ErrNoMatch         = errors.New("pattern not found")
	ErrNoPattern       = errors.New("no previous search pattern")
	ErrNoLink          = errors.New("no links")
	ErrExternalLink    = errors.New("external link")
	ErrChapterBoundary = errors.New("no more chapters")
	ErrNotOpen         = errors.New("book is not open")
)

// InvalidLineError is returned when requested line does not exist.
type InvalidLineError struct {
	Line int
	Max  int
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("%s: %d (1..%d)", ErrInvalidLine, e.Line, e.Max)
}

func (e *InvalidLineError) Unwrap() error {
	return ErrInvalidLine
}

// ExternalLinkError carries link target which points outside of the book.
type ExternalLinkError struct {
	Target string
}

func (e *ExternalLinkError) Error() string {
	return fmt.Sprintf("%s: %s", ErrExternalLink, e.Target)
}

func (e *ExternalLinkError) Unwrap() error {
	return ErrExternalLink
}
