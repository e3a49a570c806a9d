package formatter

import (
	"context"
	"fmt"

	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/config"
	"github.com/grindlemire/astrofmt/internal/doc"
	"github.com/grindlemire/astrofmt/internal/lang"
)

// Result is the outcome of formatting one file.
type Result struct {
	Output      string
	Diagnostics []Diagnostic
}

// Format parses src and prints it with opts. A nil registry uses the
// built-in languages.
func Format(ctx context.Context, filename, src string, opts config.Options, langs *lang.Registry) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid options: %w", err)
	}
	if langs == nil {
		langs = lang.Default()
	}

	tree, err := astro.Parse(filename, src)
	if err != nil {
		return Result{}, err
	}
	d, diags, err := Print(ctx, tree, opts, langs)
	if err != nil {
		return Result{Diagnostics: diags}, err
	}
	out := doc.Print(d, doc.Options{
		Width:    opts.PrintWidth,
		TabWidth: opts.TabWidth,
		UseTabs:  opts.UseTabs,
		EOL:      opts.EOL(),
	})
	return Result{Output: out, Diagnostics: diags}, nil
}

func (p *printer) langOptions(parser string) lang.Options {
	return lang.Options{
		Parser:      parser,
		PrintWidth:  p.opts.PrintWidth,
		TabWidth:    p.opts.TabWidth,
		UseTabs:     p.opts.UseTabs,
		SingleQuote: p.opts.SingleQuote,
	}
}
