package astro

import "strings"

// tagPrefixes are the characters after which a '<' inside an expression
// opens markup rather than a comparison or a type argument list.
const tagPrefixes = "({[,=:?&|!;>"

// parseExpression parses a {...} block in content. Script text is kept as
// text children and markup found inside becomes element children.
func (p *Parser) parseExpression() NodeID {
	start := p.pos
	p.pos++ // consume {
	n := Node{Kind: KindExpression, Pos: p.position(start)}

	textStart := p.pos
	flush := func(end int) {
		if end > textStart {
			n.Children = append(n.Children, p.tree.Add(Node{
				Kind:  KindText,
				Value: p.src[textStart:end],
				Pos:   p.position(textStart),
				Span:  Span{Start: textStart, End: end},
			}))
		}
	}

	depth := 0
	for !p.eof() {
		switch c := p.ch(); {
		case c == '}' && depth == 0:
			flush(p.pos)
			p.pos++
			n.Value = p.src[start+1 : p.pos-1]
			n.Span = Span{Start: start, End: p.pos}
			return p.tree.Add(n)
		case c == '{':
			depth++
			p.pos++
		case c == '}':
			depth--
			p.pos++
		case c == '"' || c == '\'':
			p.skipString()
		case c == '`':
			p.skipTemplate()
		case c == '/':
			if !p.skipComment() {
				p.pos++
			}
		case c == '<' && p.startsTag() && p.tagAllowed(start):
			flush(p.pos)
			n.Children = append(n.Children, p.parseElement())
			textStart = p.pos
		default:
			p.pos++
		}
	}

	p.errors.AddHint(n.Pos, "unterminated expression", "add a closing }")
	flush(p.pos)
	n.Value = p.src[start+1:]
	n.Span = Span{Start: start, End: p.pos}
	return p.tree.Add(n)
}

// tagAllowed reports whether markup may start at the read position of an
// expression opened at exprStart.
func (p *Parser) tagAllowed(exprStart int) bool {
	i := p.pos - 1
	for i > exprStart && isSpace(p.src[i]) {
		i--
	}
	if i <= exprStart {
		return true
	}
	if strings.IndexByte(tagPrefixes, p.src[i]) >= 0 {
		return true
	}
	word := i + 1
	for word > exprStart+1 && isIdentByte(p.src[word-1]) {
		word--
	}
	switch p.src[word : i+1] {
	case "return", "yield", "default":
		return true
	}
	return false
}
