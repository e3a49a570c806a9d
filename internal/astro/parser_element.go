package astro

import "strings"

// voidElements never own children, whether or not they are written with />.
var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "bgsound": true, "br": true,
	"col": true, "command": true, "embed": true, "frame": true, "hr": true,
	"image": true, "img": true, "input": true, "isindex": true, "keygen": true,
	"link": true, "menuitem": true, "meta": true, "nextid": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// rawTextElements hold their content as a single unparsed text child.
var rawTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"title":    true,
}

// classifyTag derives the node kind from a tag name.
func classifyTag(name string) Kind {
	switch {
	case name == "":
		return KindElement
	case strings.Contains(name, "."), name[0] >= 'A' && name[0] <= 'Z':
		return KindComponent
	case strings.Contains(name, "-"):
		return KindCustomElement
	}
	return KindElement
}

// IsVoidElement reports whether an HTML element name never has content.
func IsVoidElement(name string) bool {
	return voidElements[strings.ToLower(name)]
}

// parseElement parses a tag and, unless it is void or self-closing, its
// content and closing tag.
func (p *Parser) parseElement() NodeID {
	start := p.pos
	p.pos++ // consume <
	name := p.readName()

	n := Node{
		Kind: classifyTag(name),
		Name: name,
		Pos:  p.position(start),
	}

	var ok bool
	n.Attrs, n.SelfClosing, ok = p.parseAttributes()
	if !ok {
		p.errors.AddErrorf(n.Pos, "unterminated tag <%s", name)
		n.Span = Span{Start: start, End: p.pos}
		return p.tree.Add(n)
	}

	if n.SelfClosing || n.Kind == KindElement && IsVoidElement(name) {
		n.Span = Span{Start: start, End: p.pos}
		return p.tree.Add(n)
	}

	if n.Kind == KindElement && rawTextElements[strings.ToLower(name)] {
		if text := p.parseRawText(name); text != NoNode {
			n.Children = []NodeID{text}
		}
	} else {
		p.open = append(p.open, name)
		n.Children = p.parseNodes()
		p.open = p.open[:len(p.open)-1]
	}

	p.parseClosingTag(&n)
	n.Span = Span{Start: start, End: p.pos}
	return p.tree.Add(n)
}

// readName reads a tag or attribute name.
func (p *Parser) readName() string {
	start := p.pos
	for !p.eof() {
		c := p.ch()
		if isSpace(c) || c == '>' || c == '{' || c == '=' || c == '"' || c == '\'' || c == '`' {
			break
		}
		if c == '/' && p.peek(1) == '>' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// parseRawText consumes everything up to the closing tag of name.
func (p *Parser) parseRawText(name string) NodeID {
	start := p.pos
	end := indexFold(p.src[start:], "</"+name)
	if end < 0 {
		p.pos = len(p.src)
	} else {
		p.pos = start + end
	}
	if p.pos == start {
		return NoNode
	}
	return p.tree.Add(Node{
		Kind:  KindText,
		Value: p.src[start:p.pos],
		Pos:   p.position(start),
		Span:  Span{Start: start, End: p.pos},
	})
}

// parseClosingTag consumes </name>. A closing tag of an outer element
// closes n implicitly.
func (p *Parser) parseClosingTag(n *Node) {
	if p.eof() {
		p.errors.AddHint(n.Pos, "unclosed element <"+n.Name+">", "add </"+n.Name+">")
		return
	}
	if !p.hasPrefix("</") || !tagNameEqual(n.Name, p.closingTagName()) {
		return
	}
	p.skipPast('>')
}

func (p *Parser) parseAttributes() (attrs []Attribute, selfClosing bool, ok bool) {
	for {
		p.skipWhitespace()
		if p.eof() {
			return attrs, false, false
		}
		switch {
		case p.hasPrefix("/>"):
			p.pos += 2
			return attrs, true, true
		case p.ch() == '>':
			p.pos++
			return attrs, false, true
		case p.ch() == '{':
			attrs = append(attrs, p.parseBraceAttribute())
		default:
			attr, ok := p.parseAttribute()
			if !ok {
				p.errors.AddErrorf(p.position(p.pos), "unexpected %q in tag", p.ch())
				p.pos++
				continue
			}
			attrs = append(attrs, attr)
		}
	}
}

// parseBraceAttribute parses {name} and {...expr}.
func (p *Parser) parseBraceAttribute() Attribute {
	start := p.pos
	a := Attribute{Pos: p.position(start)}
	if !p.skipBalanced() {
		p.errors.AddError(a.Pos, "unterminated attribute expression")
		a.Kind = AttrShorthand
		a.Name = p.src[start+1:]
		a.Span = Span{Start: start, End: p.pos}
		return a
	}
	a.Span = Span{Start: start, End: p.pos}
	inner := strings.TrimSpace(p.src[start+1 : p.pos-1])
	if rest, ok := strings.CutPrefix(inner, "..."); ok {
		a.Kind = AttrSpread
		a.Name = strings.TrimSpace(rest)
	} else {
		a.Kind = AttrShorthand
		a.Name = inner
	}
	return a
}

// parseAttribute parses name, name=value and its quoted, braced and
// backtick forms.
func (p *Parser) parseAttribute() (Attribute, bool) {
	start := p.pos
	a := Attribute{Pos: p.position(start)}
	a.Name = p.readName()
	if a.Name == "" {
		return a, false
	}
	a.Span = Span{Start: start, End: p.pos}

	save := p.pos
	p.skipWhitespace()
	if p.ch() != '=' {
		p.pos = save
		a.Kind = AttrEmpty
		return a, true
	}
	p.pos++
	p.skipWhitespace()

	switch c := p.ch(); c {
	case '"', '\'':
		a.Kind = AttrQuoted
		a.Quote = c
		p.pos++
		if i := strings.IndexByte(p.src[p.pos:], c); i >= 0 {
			a.Value = p.src[p.pos : p.pos+i]
			p.pos += i + 1
		} else {
			p.errors.AddErrorf(a.Pos, "unterminated value of attribute %s", a.Name)
			a.Value = p.src[p.pos:]
			p.pos = len(p.src)
		}
	case '{':
		a.Kind = AttrExpression
		valueStart := p.pos
		if p.skipBalanced() {
			a.Value = p.src[valueStart+1 : p.pos-1]
		} else {
			p.errors.AddErrorf(a.Pos, "unterminated expression in attribute %s", a.Name)
			a.Value = p.src[valueStart+1:]
		}
	case '`':
		a.Kind = AttrTemplateLiteral
		valueStart := p.pos
		p.skipTemplate()
		if p.pos > valueStart+1 && p.src[p.pos-1] == '`' {
			a.Value = p.src[valueStart+1 : p.pos-1]
		} else {
			p.errors.AddErrorf(a.Pos, "unterminated template literal in attribute %s", a.Name)
			a.Value = p.src[valueStart+1:]
		}
	default:
		a.Kind = AttrQuoted
		valueStart := p.pos
		for !p.eof() && !isSpace(p.ch()) && p.ch() != '>' && !p.hasPrefix("/>") {
			p.pos++
		}
		a.Value = p.src[valueStart:p.pos]
	}
	a.Span.End = p.pos
	return a, true
}

// indexFold is strings.Index with ASCII case folding.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}
