package book

import (
	"fmt"
	"regexp"
)

// PatternError is returned for malformed search expressions.
type PatternError struct {
	Expr string
	Err  error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("bad search pattern %q: %v", e.Expr, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Pattern is compiled search expression.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

// NewPattern compiles expr, ignoreCase makes matching case insensitive.
func NewPattern(expr string, ignoreCase bool) (*Pattern, error) {
	src := expr
	if ignoreCase {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, &PatternError{Expr: expr, Err: err}
	}
	return &Pattern{expr: expr, re: re}, nil
}

func (p *Pattern) String() string {
	return p.expr
}
