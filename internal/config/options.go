// Package config holds the formatting options and loads them from
// .astrofmt.hcl files.
package config

import (
	"errors"
	"fmt"
)

// Version is the tool version compared against a config file's min_version.
const Version = "v0.4.0"

// Whitespace sensitivity modes.
const (
	WhitespaceCSS    = "css"
	WhitespaceStrict = "strict"
	WhitespaceIgnore = "ignore"
)

// Section orders for the root of a document. The empty order keeps the
// document order.
const (
	SortDocument     = ""
	SortMarkupStyles = "markup | styles"
	SortStylesMarkup = "styles | markup"
)

// Line endings.
const (
	EndOfLineLF   = "lf"
	EndOfLineCRLF = "crlf"
)

// Options controls formatting.
type Options struct {
	PrintWidth             int
	TabWidth               int
	UseTabs                bool
	EndOfLine              string
	SingleQuote            bool
	SingleAttributePerLine bool
	BracketSameLine        bool
	WhitespaceSensitivity  string
	AllowShorthand         bool
	SkipFrontmatter        bool
	SortOrder              string
}

// Default returns the default options.
func Default() Options {
	return Options{
		PrintWidth:            80,
		TabWidth:              2,
		EndOfLine:             EndOfLineLF,
		WhitespaceSensitivity: WhitespaceCSS,
		SortOrder:             SortDocument,
	}
}

// EOL returns the newline sequence for the configured line ending.
func (o Options) EOL() string {
	if o.EndOfLine == EndOfLineCRLF {
		return "\r\n"
	}
	return "\n"
}

// Validate rejects widths that are not positive and unknown enum values.
func (o Options) Validate() error {
	var errs []error
	if o.PrintWidth <= 0 {
		errs = append(errs, fmt.Errorf("print_width must be positive, got %d", o.PrintWidth))
	}
	if o.TabWidth <= 0 {
		errs = append(errs, fmt.Errorf("tab_width must be positive, got %d", o.TabWidth))
	}
	switch o.EndOfLine {
	case EndOfLineLF, EndOfLineCRLF:
	default:
		errs = append(errs, fmt.Errorf("end_of_line must be %q or %q, got %q", EndOfLineLF, EndOfLineCRLF, o.EndOfLine))
	}
	switch o.WhitespaceSensitivity {
	case WhitespaceCSS, WhitespaceStrict, WhitespaceIgnore:
	default:
		errs = append(errs, fmt.Errorf("whitespace_sensitivity must be one of css, strict, ignore; got %q", o.WhitespaceSensitivity))
	}
	switch o.SortOrder {
	case SortDocument, SortMarkupStyles, SortStylesMarkup:
	default:
		errs = append(errs, fmt.Errorf("sort_order must be %q or %q, got %q", SortMarkupStyles, SortStylesMarkup, o.SortOrder))
	}
	return errors.Join(errs...)
}
