package formatter

import (
	"fmt"

	"github.com/grindlemire/astrofmt/internal/astro"
)

// UnknownNodeError is returned when the printer meets a node it has no
// layout for, such as a frontmatter block below the root.
type UnknownNodeError struct {
	Kind astro.Kind
	Pos  astro.Position
}

// Error implements the error interface.
func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("%s: unknown node kind %q", e.Pos, e.Kind)
}

// Diagnostic records an embedded region that was printed unformatted
// because its language formatter failed.
type Diagnostic struct {
	Pos    astro.Position
	Parser string
	Err    error
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s region left unformatted: %v", d.Pos, d.Parser, d.Err)
}

// Unwrap returns the formatter error.
func (d Diagnostic) Unwrap() error { return d.Err }

// bailout carries a fatal printing error up through the recursion.
type bailout struct {
	err error
}

func (p *printer) bail(err error) {
	panic(bailout{err: err})
}
