package formatter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/config"
	"github.com/grindlemire/astrofmt/internal/doc"
)

// htmlSpace matches runs of the characters HTML treats as whitespace.
var htmlSpace = regexp.MustCompile(`[\t\n\f\r ]+`)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isEmptyText(n astro.Node) bool {
	return n.Kind == astro.KindText && isBlank(n.Value)
}

// allEmptyText reports whether every child is whitespace-only text. A node
// without children is empty.
func (p *printer) allEmptyText(children []astro.NodeID) bool {
	for _, c := range children {
		if !isEmptyText(p.tree.Node(c)) {
			return false
		}
	}
	return true
}

func startsWithWhitespace(n astro.Node) bool {
	if n.Kind != astro.KindText || n.Value == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(n.Value)
	return unicode.IsSpace(r)
}

func endsWithWhitespace(n astro.Node) bool {
	if n.Kind != astro.KindText || n.Value == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(n.Value)
	return unicode.IsSpace(r)
}

func isLineBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\r'
}

// startsWithLinebreak reports whether s opens with count line breaks, each
// optionally preceded by blanks.
func startsWithLinebreak(s string, count int) bool {
	i := 0
	for range count {
		for i < len(s) && isLineBlank(s[i]) {
			i++
		}
		if i >= len(s) || s[i] != '\n' {
			return false
		}
		i++
	}
	return true
}

// endsWithLinebreak reports whether s closes with count line breaks, each
// optionally followed by blanks.
func endsWithLinebreak(s string, count int) bool {
	i := len(s) - 1
	for range count {
		for i >= 0 && isLineBlank(s[i]) {
			i--
		}
		if i < 0 || s[i] != '\n' {
			return false
		}
		i--
	}
	return true
}

// splitTextToDocs turns text into fill parts: words separated by lines.
// Leading and trailing whitespace become lines too, and one or two source
// line breaks at either end are kept as hard lines.
func splitTextToDocs(text string) []doc.Doc {
	words := htmlSpace.Split(text, -1)
	docs := make([]doc.Doc, 0, 2*len(words))
	for i, w := range words {
		if i > 0 {
			docs = append(docs, doc.Line)
		}
		if w != "" {
			docs = append(docs, doc.Text(w))
		}
	}
	if len(docs) == 0 {
		return docs
	}
	if startsWithLinebreak(text, 1) {
		docs[0] = doc.Hardline
	}
	if startsWithLinebreak(text, 2) {
		docs = append([]doc.Doc{doc.Hardline}, docs...)
	}
	if endsWithLinebreak(text, 1) {
		docs[len(docs)-1] = doc.Hardline
	}
	if endsWithLinebreak(text, 2) {
		docs = append(docs, doc.Hardline)
	}
	return docs
}

// isBlockElement reports whether whitespace around the content of n is
// insignificant.
func (p *printer) isBlockElement(n astro.Node) bool {
	if n.Kind != astro.KindElement {
		return false
	}
	switch p.opts.WhitespaceSensitivity {
	case config.WhitespaceStrict:
		return false
	case config.WhitespaceIgnore:
		return true
	}
	return blockElements[n.Name]
}

func (p *printer) isInlineElement(n astro.Node) bool {
	return n.Kind == astro.KindElement && !p.isBlockElement(n) && !p.inPre()
}

// shouldHugStart reports whether the opening tag is glued to the first child.
func (p *printer) shouldHugStart(n astro.Node) bool {
	if p.isBlockElement(n) {
		return false
	}
	if len(n.Children) == 0 {
		return true
	}
	return !startsWithWhitespace(p.tree.Node(n.Children[0]))
}

// shouldHugEnd reports whether the closing tag is glued to the last child.
func (p *printer) shouldHugEnd(n astro.Node) bool {
	if p.isBlockElement(n) {
		return false
	}
	if len(n.Children) == 0 {
		return true
	}
	return !endsWithWhitespace(p.tree.Node(n.Children[len(n.Children)-1]))
}

// canOmitSoftlineBeforeClosingTag reports whether the current node is the
// last child of a block element.
func (p *printer) canOmitSoftlineBeforeClosingTag() bool {
	parent, ok := p.path.parent()
	if !ok || !p.isBlockElement(p.tree.Node(parent.node)) {
		return false
	}
	cur := p.path.current()
	return cur.index == len(cur.siblings)-1
}

// inPre reports whether the current node sits in content printed as
// written: inside a <pre> or an attribute value we do not reformat.
func (p *printer) inPre() bool {
	for _, f := range p.path.frames {
		if f.attr != nil {
			if !formattableAttributes[f.attr.Name] {
				return true
			}
			continue
		}
		n := p.tree.Node(f.node)
		if n.Kind == astro.KindElement && strings.EqualFold(n.Name, "pre") {
			return true
		}
	}
	return false
}
