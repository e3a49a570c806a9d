package formatter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/config"
	"github.com/grindlemire/astrofmt/internal/ctxlog"
	"github.com/grindlemire/astrofmt/internal/doc"
	"github.com/grindlemire/astrofmt/internal/lang"
)

// printer builds the layout document of one parsed file. It is used for a
// single Print call.
type printer struct {
	ctx   context.Context
	log   *slog.Logger
	tree  *astro.Tree
	opts  config.Options
	langs *lang.Registry
	path  path

	// ignoreNext is set by an ignore directive comment and cleared by the
	// next node that is not whitespace-only text.
	ignoreNext bool
	diags      []Diagnostic
}

// newPrinter creates a printer for tree.
func newPrinter(ctx context.Context, tree *astro.Tree, opts config.Options, langs *lang.Registry) *printer {
	return &printer{
		ctx:   ctx,
		log:   ctxlog.FromContext(ctx),
		tree:  tree,
		opts:  opts,
		langs: langs,
	}
}

// Print builds the layout document for tree. Regions whose embedded
// language could not be formatted are printed as written and reported as
// diagnostics. The returned error is an *UnknownNodeError.
func Print(ctx context.Context, tree *astro.Tree, opts config.Options, langs *lang.Registry) (d doc.Doc, diags []Diagnostic, err error) {
	p := newPrinter(ctx, tree, opts, langs)
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			d, diags, err = nil, p.diags, b.err
		}
	}()

	p.path.push(frame{node: tree.Root, siblings: []astro.NodeID{tree.Root}})
	d = p.print(tree.Root)
	p.path.pop()
	return d, p.diags, nil
}

// print returns the document of node id, which must be the current frame.
func (p *printer) print(id astro.NodeID) doc.Doc {
	n := p.tree.Node(id)
	if p.bypass(n) {
		return verbatim(p.tree.Text(id))
	}
	if d, ok := p.embed(id, n); ok {
		return d
	}

	switch n.Kind {
	case astro.KindRoot:
		if id == p.tree.Root {
			return p.printRoot(n)
		}
	case astro.KindText:
		return printText(n.Value)
	case astro.KindElement, astro.KindComponent, astro.KindCustomElement, astro.KindFragment:
		return p.printElement(n)
	case astro.KindComment:
		return p.printComment(n)
	case astro.KindDoctype:
		return doc.Concat{doc.Text("<!doctype html>"), doc.Hardline}
	}
	p.bail(&UnknownNodeError{Kind: n.Kind, Pos: n.Pos})
	return nil
}

// bypass reports whether n follows an ignore directive and clears the
// directive when it does.
func (p *printer) bypass(n astro.Node) bool {
	if !p.ignoreNext || isEmptyText(n) {
		return false
	}
	p.ignoreNext = false
	return true
}

// printChild prints the i-th entry of children as the current node.
func (p *printer) printChild(children []astro.NodeID, i int) doc.Doc {
	p.path.push(frame{node: children[i], siblings: children, index: i})
	defer p.path.pop()
	return p.print(children[i])
}

// printChildren prints every entry of children in order.
func (p *printer) printChildren(children []astro.NodeID) doc.Concat {
	parts := make(doc.Concat, len(children))
	for i := range children {
		parts[i] = p.printChild(children, i)
	}
	return parts
}

func (p *printer) printRoot(n astro.Node) doc.Doc {
	children := p.trimEmptyText(n.Children)
	var body doc.Doc
	if p.opts.SortOrder == config.SortDocument {
		body = p.printChildren(children)
	} else {
		body = p.printSections(children)
	}
	return doc.Concat{doc.StripTrailingHardline(body), doc.Hardline}
}

// trimEmptyText drops whitespace-only text at both ends of children.
func (p *printer) trimEmptyText(children []astro.NodeID) []astro.NodeID {
	for len(children) > 0 && isEmptyText(p.tree.Node(children[0])) {
		children = children[1:]
	}
	for len(children) > 0 && isEmptyText(p.tree.Node(children[len(children)-1])) {
		children = children[:len(children)-1]
	}
	return children
}

func printText(value string) doc.Doc {
	if isBlank(value) {
		switch {
		case strings.Count(value, "\n") >= 2:
			return doc.Concat{doc.Hardline, doc.Hardline}
		case strings.Contains(value, "\n"):
			return doc.Hardline
		case value != "":
			return doc.Line
		}
		return doc.Empty
	}
	return doc.Fill(splitTextToDocs(value)...)
}

func (p *printer) printComment(n astro.Node) doc.Doc {
	if isIgnoreDirective(n.Value) {
		p.ignoreNext = true
	}
	parts := doc.Concat{doc.Text("<!--"), verbatim(n.Value), doc.Text("-->")}
	if next, ok := p.path.next(); ok && p.tree.Kind(next).IsTag() {
		parts = append(parts, doc.Hardline)
	}
	return parts
}

// verbatim prints s as written, breaking lines without indentation.
func verbatim(s string) doc.Doc {
	if !strings.Contains(s, "\n") {
		return doc.Text(s)
	}
	lines := strings.Split(s, "\n")
	parts := make(doc.Concat, 0, 2*len(lines))
	for i, line := range lines {
		if i > 0 {
			parts = append(parts, doc.Literalline)
		}
		parts = append(parts, doc.Text(line))
	}
	return parts
}
