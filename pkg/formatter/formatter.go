// Package formatter provides code formatting for .astro files.
package formatter

import (
	"context"

	"github.com/grindlemire/astrofmt/internal/config"
	"github.com/grindlemire/astrofmt/internal/formatter"
	"github.com/grindlemire/astrofmt/internal/lang"
)

// Options controls formatting. See [config.Default] for the defaults.
type Options = config.Options

// Diagnostic reports an embedded region printed as written because its
// language could not be formatted.
type Diagnostic = formatter.Diagnostic

// Formatter formats .astro source code.
type Formatter struct {
	// Options are applied to every file.
	Options Options
	// Languages formats frontmatter, scripts, styles and expressions.
	// Nil uses the built-in languages.
	Languages *lang.Registry
}

// New creates a new Formatter with default settings.
func New() *Formatter {
	return &Formatter{
		Options:   config.Default(),
		Languages: lang.Default(),
	}
}

// Format parses and reformats the given .astro source code.
// Returns the formatted code and any error encountered during parsing.
func (f *Formatter) Format(filename, source string) (string, error) {
	res, err := f.FormatContext(context.Background(), filename, source)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// FormatResult contains the result of formatting a file.
type FormatResult struct {
	// Content is the formatted content.
	Content string
	// Changed indicates if the content was different from the original.
	Changed bool
	// Diagnostics lists the regions left unformatted.
	Diagnostics []Diagnostic
}

// FormatWithResult formats the source and indicates if it changed.
func (f *Formatter) FormatWithResult(filename, source string) (FormatResult, error) {
	return f.FormatContext(context.Background(), filename, source)
}

// FormatContext is FormatWithResult with a context. A logger stored with
// ctxlog.WithLogger receives debug records for regions left unformatted.
func (f *Formatter) FormatContext(ctx context.Context, filename, source string) (FormatResult, error) {
	res, err := formatter.Format(ctx, filename, source, f.Options, f.Languages)
	if err != nil {
		return FormatResult{}, err
	}
	return FormatResult{
		Content:     res.Output,
		Changed:     res.Output != source,
		Diagnostics: res.Diagnostics,
	}, nil
}
