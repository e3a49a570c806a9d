package astro

import "strings"

// Parser builds a Tree from .astro source.
type Parser struct {
	*scanner
	tree   *Tree
	errors ErrorList
	open   []string // names of the elements currently being parsed
}

// NewParser creates a parser for the given file name and source.
func NewParser(file, source string) *Parser {
	return &Parser{
		scanner: newScanner(file, source),
		tree:    NewTree(file, source),
	}
}

// Parse is a convenience wrapper around NewParser and ParseFile.
func Parse(file, source string) (*Tree, error) {
	return NewParser(file, source).ParseFile()
}

// ParseFile parses the whole source. The returned tree is usable even when
// an error is returned; the error lists every problem found.
func (p *Parser) ParseFile() (*Tree, error) {
	var children []NodeID
	if fm, ok := p.parseFrontmatter(); ok {
		children = append(children, fm)
	}
	children = append(children, p.parseNodes()...)

	p.tree.Root = p.tree.Add(Node{
		Kind:     KindRoot,
		Children: children,
		Pos:      p.position(0),
		Span:     Span{Start: 0, End: len(p.src)},
	})
	return p.tree, p.errors.Err()
}

// parseFrontmatter parses a leading --- fenced block. Whitespace after the
// closing fence belongs to the frontmatter.
func (p *Parser) parseFrontmatter() (NodeID, bool) {
	start := p.pos
	p.skipWhitespace()
	if !p.hasPrefix("---") {
		p.pos = start
		return NoNode, false
	}
	fenceStart := p.pos
	p.pos += 3
	contentStart := p.pos

	end := -1
	for i := contentStart; i < len(p.src); {
		nl := strings.IndexByte(p.src[i:], '\n')
		if nl < 0 {
			break
		}
		lineStart := i + nl + 1
		if isFence(p.src[lineStart:]) {
			end = lineStart
			break
		}
		i = lineStart
	}

	n := Node{Kind: KindFrontmatter, Pos: p.position(fenceStart)}
	if end < 0 {
		p.errors.AddHint(n.Pos, "unterminated frontmatter", "close it with a --- line")
		n.Value = p.src[contentStart:]
		p.pos = len(p.src)
	} else {
		n.Value = p.src[contentStart:end]
		p.pos = end + 3
	}
	n.Span = Span{Start: fenceStart, End: p.pos}
	p.skipWhitespace()
	return p.tree.Add(n), true
}

// isFence reports whether s starts with a line consisting of --- and
// optional trailing blanks.
func isFence(s string) bool {
	if !strings.HasPrefix(s, "---") {
		return false
	}
	rest := s[3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimRight(rest, " \t\r") == ""
}

// parseNodes parses content until end of input or a closing tag that
// matches one of the open elements.
func (p *Parser) parseNodes() []NodeID {
	var nodes []NodeID
	for !p.eof() {
		switch {
		case p.hasPrefix("</"):
			start := p.pos
			name := p.closingTagName()
			if p.isOpen(name) {
				return nodes
			}
			p.skipPast('>')
			p.errors.AddErrorf(p.position(start), "unexpected closing tag </%s>", name)
		case p.hasPrefix("<!--"):
			nodes = append(nodes, p.parseComment())
		case p.hasPrefixFold("<!doctype"):
			nodes = append(nodes, p.parseDoctype())
		case p.startsTag():
			nodes = append(nodes, p.parseElement())
		case p.ch() == '{':
			nodes = append(nodes, p.parseExpression())
		default:
			nodes = append(nodes, p.parseText())
		}
	}
	return nodes
}

// startsTag reports whether the read position holds the start of an opening tag.
func (p *Parser) startsTag() bool {
	return p.ch() == '<' && (isLetter(p.peek(1)) || p.peek(1) == '>')
}

// breaksText reports whether text content ends at the read position.
func (p *Parser) breaksText() bool {
	switch p.ch() {
	case '{':
		return true
	case '<':
		return p.startsTag() || p.hasPrefix("</") || p.hasPrefix("<!--") || p.hasPrefixFold("<!doctype")
	}
	return false
}

func (p *Parser) parseText() NodeID {
	start := p.pos
	p.pos++
	for !p.eof() && !p.breaksText() {
		p.pos++
	}
	return p.tree.Add(Node{
		Kind:  KindText,
		Value: p.src[start:p.pos],
		Pos:   p.position(start),
		Span:  Span{Start: start, End: p.pos},
	})
}

func (p *Parser) parseComment() NodeID {
	start := p.pos
	p.pos += len("<!--")
	n := Node{Kind: KindComment, Pos: p.position(start)}
	if i := strings.Index(p.src[p.pos:], "-->"); i >= 0 {
		n.Value = p.src[p.pos : p.pos+i]
		p.pos += i + len("-->")
	} else {
		p.errors.AddError(n.Pos, "unterminated comment")
		n.Value = p.src[p.pos:]
		p.pos = len(p.src)
	}
	n.Span = Span{Start: start, End: p.pos}
	return p.tree.Add(n)
}

// parseDoctype parses <!doctype ...>. Whitespace after it belongs to the doctype.
func (p *Parser) parseDoctype() NodeID {
	start := p.pos
	p.pos += len("<!")
	n := Node{Kind: KindDoctype, Pos: p.position(start)}
	if i := strings.IndexByte(p.src[p.pos:], '>'); i >= 0 {
		n.Value = p.src[p.pos : p.pos+i]
		p.pos += i + 1
	} else {
		p.errors.AddError(n.Pos, "unterminated doctype")
		n.Value = p.src[p.pos:]
		p.pos = len(p.src)
	}
	n.Span = Span{Start: start, End: p.pos}
	p.skipWhitespace()
	return p.tree.Add(n)
}

func (p *Parser) isOpen(name string) bool {
	for i := len(p.open) - 1; i >= 0; i-- {
		if tagNameEqual(p.open[i], name) {
			return true
		}
	}
	return false
}

// closingTagName returns the name of the closing tag at the read position
// without consuming it.
func (p *Parser) closingTagName() string {
	i := p.pos + 2
	j := i
	for j < len(p.src) && !isSpace(p.src[j]) && p.src[j] != '>' {
		j++
	}
	return p.src[i:j]
}

func tagNameEqual(a, b string) bool {
	if classifyTag(a) == KindElement {
		return strings.EqualFold(a, b)
	}
	return a == b
}
