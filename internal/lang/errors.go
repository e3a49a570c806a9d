package lang

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for parser names without a registered formatter.
var ErrUnsupported = errors.New("unsupported language")

// ParseError reports source an embedded-language formatter could not parse.
// Line and Column are 1-based and relative to the formatted snippet.
type ParseError struct {
	Parser  string
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Parser, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Parser, e.Line, e.Column, e.Message)
}

func parseErrorf(parser string, line, column int, format string, args ...any) *ParseError {
	return &ParseError{
		Parser:  parser,
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}
