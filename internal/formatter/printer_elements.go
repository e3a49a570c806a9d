package formatter

import (
	"slices"
	"strings"
	"unicode"

	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/doc"
)

// printElement prints a tag-like node with its attributes and children.
// The layout depends on whether the tags hug their content and whether
// the content is empty.
func (p *printer) printElement(n astro.Node) doc.Doc {
	name := doc.Text(n.Name)
	isEmpty := p.allEmptyText(n.Children)
	perLine := p.opts.SingleAttributePerLine && len(n.Attrs) > 1
	attrs := p.printAttributes(n, perLine)

	if isEmpty && (n.Kind == astro.KindComponent || selfClosingTags[n.Name] || hasSetDirective(n)) {
		return doc.Group(doc.Text("<"), name, doc.Indent(attrs), doc.Line, doc.Text("/>"))
	}

	pre := p.inPre()
	inline := p.isInlineElement(n)
	hugStart := p.shouldHugStart(n)
	hugEnd := p.shouldHugEnd(n)
	children := n.Children

	var emptyBody doc.Doc = doc.Softline
	if inline && len(children) > 0 && startsWithWhitespace(p.tree.Node(children[0])) {
		emptyBody = doc.Line
	}
	body := func() doc.Doc {
		switch {
		case isEmpty:
			return emptyBody
		case pre:
			return verbatim(p.rawChildren(children))
		}
		return p.printChildren(children)
	}

	var attrEnd doc.Doc = doc.Empty
	if !hugStart && !pre && !p.opts.BracketSameLine {
		attrEnd = doc.Dedent(doc.Softline)
	}
	open := doc.Concat{doc.Text("<"), name, doc.Indent(doc.Group(attrs, attrEnd))}
	closing := doc.Text("</" + n.Name + ">")

	if hugStart && hugEnd {
		var first doc.Doc = doc.Softline
		if perLine {
			first = doc.Hardline
		}
		hugged := doc.Concat{first, doc.Group(doc.Text(">"), body(), doc.Text("</"+n.Name))}
		var inner doc.Doc
		if isEmpty {
			inner = doc.Group(hugged)
		} else {
			inner = doc.Group(doc.Indent(hugged))
		}
		var beforeClose doc.Doc = doc.Softline
		if isEmpty || p.canOmitSoftlineBeforeClosingTag() {
			beforeClose = doc.Empty
		}
		return doc.Group(open, inner, beforeClose, doc.Text(">"))
	}

	var sepStart, sepEnd doc.Doc = doc.Softline, doc.Softline
	if pre {
		sepStart, sepEnd = doc.Empty, doc.Empty
	} else if len(children) > 0 {
		didSetEnd := false
		first := p.tree.Node(children[0])
		if !hugStart && first.Kind == astro.KindText {
			last := p.tree.Node(children[len(children)-1])
			if startsWithLinebreak(first.Value, 1) && len(children) > 1 && (!inline || endsWithWhitespace(last)) {
				sepStart, sepEnd = doc.Hardline, doc.Hardline
				didSetEnd = true
			} else if inline {
				sepStart = doc.Line
			}
			children = p.replaceText(children, 0, strings.TrimLeftFunc(first.Value, unicode.IsSpace))
		}
		last := p.tree.Node(children[len(children)-1])
		if !hugEnd && last.Kind == astro.KindText {
			if inline && !didSetEnd {
				sepEnd = doc.Line
			}
			children = p.replaceText(children, len(children)-1, strings.TrimRightFunc(last.Value, unicode.IsSpace))
		}
	}

	switch {
	case hugStart:
		return doc.Group(open, doc.Indent(doc.Softline, doc.Group(doc.Text(">"), body())), sepEnd, closing)
	case hugEnd:
		var beforeClose doc.Doc = doc.Softline
		if p.canOmitSoftlineBeforeClosingTag() {
			beforeClose = doc.Empty
		}
		return doc.Group(open, doc.Text(">"),
			doc.Indent(sepStart, doc.Group(body(), doc.Text("</"+n.Name))),
			beforeClose, doc.Text(">"))
	case isEmpty:
		return doc.Group(open, doc.Text(">"), body(), closing)
	}
	return doc.Group(open, doc.Text(">"), doc.Indent(sepStart, body()), sepEnd, closing)
}

// replaceText returns children with the i-th text child replaced by a new
// node holding value. The tree's existing nodes are left untouched.
func (p *printer) replaceText(children []astro.NodeID, i int, value string) []astro.NodeID {
	n := p.tree.Node(children[i])
	if n.Value == value {
		return children
	}
	n.Value = value
	out := slices.Clone(children)
	out[i] = p.tree.Add(n)
	return out
}

// rawChildren reconstructs the source of children.
func (p *printer) rawChildren(children []astro.NodeID) string {
	var sb strings.Builder
	for _, c := range children {
		sb.WriteString(astro.Serialize(p.tree, c))
	}
	return sb.String()
}
