package formatter

import (
	"strings"
	"unicode"

	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/doc"
	"github.com/grindlemire/astrofmt/internal/lang"
)

// embed prints nodes whose content belongs to another language. It reports
// false for nodes printed by the markup printer.
func (p *printer) embed(id astro.NodeID, n astro.Node) (doc.Doc, bool) {
	switch {
	case n.Kind == astro.KindExpression:
		return p.embedExpression(id, n), true
	case n.Kind == astro.KindFrontmatter && id == p.firstRootChild():
		return p.embedFrontmatter(n), true
	case n.Kind == astro.KindElement && n.Name == "script" && len(n.Children) > 0:
		return p.embedScript(id, n), true
	case n.Kind == astro.KindElement && n.Name == "style":
		return p.embedStyle(id, n), true
	}
	return nil, false
}

func (p *printer) firstRootChild() astro.NodeID {
	children := p.tree.Children(p.tree.Root)
	if len(children) == 0 {
		return astro.NoNode
	}
	return children[0]
}

// format runs the embedded formatter registered for parser.
func (p *printer) format(src, parser string) (doc.Doc, error) {
	return p.langs.Format(p.ctx, src, p.langOptions(parser))
}

// fallback records that a region is printed as written because parser
// failed on it.
func (p *printer) fallback(pos astro.Position, what, parser string, err error) {
	p.diags = append(p.diags, Diagnostic{Pos: pos, Parser: parser, Err: err})
	p.log.Debug("embedded region left unformatted",
		"parser", parser,
		"node", what,
		"pos", pos.String(),
		"err", err,
	)
}

func (p *printer) embedExpression(id astro.NodeID, n astro.Node) doc.Doc {
	src := astro.SerializeChildren(p.tree, p.makeCompatible(id))
	content, err := p.format(src, lang.AstroExpression)
	if err != nil {
		raw := astro.SerializeChildren(p.tree, id)
		content, err = p.format(raw, lang.TypeScript)
		if err != nil {
			p.fallback(n.Pos, n.Kind.String(), lang.AstroExpression, err)
			return doc.Concat{doc.Text("{"), verbatim(raw), doc.Text("}")}
		}
		src = raw
	}
	content = restoreCompat(doc.StripTrailingHardline(content))

	if onlyComments, lineComment := scanComments(src); onlyComments {
		var closing doc.Doc = doc.Softline
		if lineComment {
			closing = doc.Hardline
		}
		return doc.Group(doc.Text("{"), content, closing, doc.LineSuffixBoundary, doc.Text("}"))
	}
	return doc.Group(
		doc.Text("{"),
		doc.Indent(doc.Softline, content),
		doc.Softline,
		doc.LineSuffixBoundary,
		doc.Text("}"),
	)
}

// embedAttribute prints expression and spread attribute values with the
// expression formatter.
func (p *printer) embedAttribute(a astro.Attribute) (doc.Doc, bool) {
	var src string
	switch a.Kind {
	case astro.AttrExpression:
		src = a.Value
	case astro.AttrSpread:
		src = a.Name
	default:
		return nil, false
	}

	value, ok := p.formatAttributeValue(a, src)
	if !ok {
		value = verbatim(src)
	}
	if a.Kind == astro.AttrSpread {
		return doc.Concat{doc.Line, doc.Text("{..."), value, doc.Text("}")}, true
	}
	name := strings.TrimSpace(a.Name)
	if p.opts.AllowShorthand && name == strings.TrimSpace(src) {
		return doc.Concat{doc.Line, doc.Text("{"), value, doc.Text("}")}, true
	}
	return doc.Concat{doc.Line, doc.Text(name + "={"), value, doc.Text("}")}, true
}

// formatAttributeValue formats an attribute expression, retrying with the
// typescript grammar before giving up.
func (p *printer) formatAttributeValue(a astro.Attribute, src string) (doc.Doc, bool) {
	d, err := p.format(src, lang.AstroExpression)
	if err != nil {
		d, err = p.format(src, lang.TypeScript)
	}
	if err != nil {
		p.fallback(a.Pos, "attribute "+a.Kind.String(), lang.AstroExpression, err)
		return nil, false
	}
	return doc.StripTrailingHardline(d), true
}

func (p *printer) embedFrontmatter(n astro.Node) doc.Doc {
	var content doc.Doc
	if p.opts.SkipFrontmatter {
		content = verbatim(trimBlankLines(n.Value))
	} else if d, err := p.format(n.Value, lang.BabelTS); err != nil {
		p.fallback(n.Pos, n.Kind.String(), lang.BabelTS, err)
		content = verbatim(trimBlankLines(n.Value))
	} else {
		content = doc.StripTrailingHardline(d)
	}

	fence := doc.Text("---")
	if doc.IsEmpty(content) {
		return doc.Concat{doc.Group(fence, doc.Hardline, fence, doc.Hardline), doc.Hardline}
	}
	return doc.Concat{doc.Group(fence, doc.Hardline, content, doc.Hardline, fence, doc.Hardline), doc.Hardline}
}

func (p *printer) embedScript(id astro.NodeID, n astro.Node) doc.Doc {
	parser := inferScriptParser(n)
	src := astro.SerializeChildren(p.tree, id)
	open := p.printEmbedOpeningTag(n)

	d, err := p.format(src, parser)
	if err != nil {
		p.fallback(n.Pos, n.Kind.String(), parser, err)
		return doc.Concat{open, verbatim(src), doc.Text("</script>")}
	}
	return wrapEmbedded(open, doc.StripTrailingHardline(d), isBlank(src), "</script>")
}

func (p *printer) embedStyle(id astro.NodeID, n astro.Node) doc.Doc {
	styleLang := lang.CSS
	if a, ok := n.Attr("lang"); ok {
		styleLang = strings.ToLower(a.Value)
		if !supportedStyleLangs[styleLang] {
			return verbatim(p.tree.Text(id))
		}
	}
	src := astro.SerializeChildren(p.tree, id)
	open := p.printEmbedOpeningTag(n)

	input := src
	if styleLang == lang.Sass {
		input = manualDedent(src)
	}
	d, err := p.format(input, styleLang)
	if err != nil {
		p.fallback(n.Pos, n.Kind.String(), styleLang, err)
		return doc.Concat{open, verbatim(src), doc.Text("</style>")}
	}
	return wrapEmbedded(open, doc.StripTrailingHardline(d), isBlank(src), "</style>")
}

// printEmbedOpeningTag prints the opening tag of a script or style element.
func (p *printer) printEmbedOpeningTag(n astro.Node) doc.Doc {
	attrs := doc.Concat(p.printAttributeList(n))
	return doc.Group(
		doc.Text("<"+n.Name),
		doc.Indent(doc.Group(attrs)),
		doc.Softline,
		doc.Text(">"),
	)
}

func wrapEmbedded(open, body doc.Doc, empty bool, closing string) doc.Doc {
	if empty {
		return doc.Concat{open, doc.Indent(body), doc.Text(closing)}
	}
	return doc.Concat{open, doc.Indent(doc.Hardline, body), doc.Hardline, doc.Text(closing)}
}

// trimBlankLines removes blank lines around s, keeping the indentation of
// its first line.
func trimBlankLines(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	lead := len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
	if i := strings.LastIndexByte(s[:lead], '\n'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// manualDedent removes the indentation shared by every non-blank line of a
// sass body.
func manualDedent(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(src, "\n")

	minIndent := -1
	var indentChar byte
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		width := len(line) - len(trimmed)
		if width == 0 {
			return src
		}
		if indentChar == 0 {
			indentChar = line[0]
		}
		if minIndent < 0 || width < minIndent {
			minIndent = width
		}
	}
	if minIndent <= 0 {
		return src
	}

	prefix := strings.Repeat(string(indentChar), minIndent)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

// scanComments reports whether src holds nothing but comments and
// whitespace, and whether the last comment is a line comment.
func scanComments(src string) (onlyComments, lineComment bool) {
	i := 0
	for {
		for i < len(src) && unicode.IsSpace(rune(src[i])) {
			i++
		}
		switch {
		case i >= len(src):
			return true, lineComment
		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				return true, true
			}
			i += end + 1
			lineComment = true
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return false, false
			}
			i += end + 4
			lineComment = false
		default:
			return false, false
		}
	}
}
