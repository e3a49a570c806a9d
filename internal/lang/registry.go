// Package lang formats the embedded languages of an .astro file: scripts,
// frontmatter, expressions, stylesheets and the less common script types.
//
// Every language is a [Formatter] registered under one or more parser
// names. A formatter either returns a layout document or a [*ParseError];
// callers are expected to fall back to the unformatted source on error.
package lang

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/grindlemire/astrofmt/internal/doc"
)

// Parser names.
const (
	Babel           = "babel"
	BabelTS         = "babel-ts"
	TypeScript      = "typescript"
	AstroExpression = "astro-expression"
	CSS             = "css"
	SCSS            = "scss"
	Less            = "less"
	Sass            = "sass"
	Markdown        = "markdown"
	HTML            = "html"
	JSON            = "json"
	Glimmer         = "glimmer"
)

// Options are passed to every formatter call.
type Options struct {
	Parser      string
	PrintWidth  int
	TabWidth    int
	UseTabs     bool
	SingleQuote bool
}

// indentUnit returns one level of indentation.
func (o Options) indentUnit() string {
	if o.UseTabs {
		return "\t"
	}
	n := o.TabWidth
	if n <= 0 {
		n = 2
	}
	return strings.Repeat(" ", n)
}

// Formatter formats the source of one embedded language.
type Formatter interface {
	Format(ctx context.Context, src string, opts Options) (doc.Doc, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(ctx context.Context, src string, opts Options) (doc.Doc, error)

// Format calls f.
func (f FormatterFunc) Format(ctx context.Context, src string, opts Options) (doc.Doc, error) {
	return f(ctx, src, opts)
}

// Registry maps parser names to formatters. It is read-only after setup and
// safe for concurrent use.
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formatters: map[string]Formatter{}}
}

// Default returns a registry with every built-in language.
func Default() *Registry {
	r := NewRegistry()
	scripts := NewScriptFormatter()
	for _, name := range []string{Babel, BabelTS, TypeScript, AstroExpression} {
		r.Register(name, scripts)
	}
	styles := NewStyleFormatter()
	for _, name := range []string{CSS, SCSS, Less} {
		r.Register(name, styles)
	}
	r.Register(Sass, FormatterFunc(formatSass))
	r.Register(Markdown, FormatterFunc(formatMarkdown))
	r.Register(HTML, FormatterFunc(formatHTML))
	r.Register(JSON, FormatterFunc(formatJSON))
	return r
}

// Register binds a formatter to a parser name, replacing any previous one.
func (r *Registry) Register(parser string, f Formatter) {
	r.formatters[parser] = f
}

// Lookup returns the formatter registered for parser.
func (r *Registry) Lookup(parser string) (Formatter, bool) {
	f, ok := r.formatters[parser]
	return f, ok
}

// Parsers returns the registered parser names in sorted order.
func (r *Registry) Parsers() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format formats src with the formatter named by opts.Parser.
func (r *Registry) Format(ctx context.Context, src string, opts Options) (doc.Doc, error) {
	f, ok := r.Lookup(opts.Parser)
	if !ok {
		return nil, fmt.Errorf("parser %q: %w", opts.Parser, ErrUnsupported)
	}
	return f.Format(ctx, src, opts)
}
