package lang

import (
	"context"
	"fmt"
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"

	"github.com/grindlemire/astrofmt/internal/doc"
)

// StyleFormatter formats CSS, SCSS and Less stylesheets. Rules are printed
// one statement per line, nested blocks indented, selector lists split
// after commas and declaration values normalized token by token.
type StyleFormatter struct{}

// NewStyleFormatter returns a stylesheet formatter.
func NewStyleFormatter() *StyleFormatter {
	return &StyleFormatter{}
}

// Format implements Formatter.
func (f *StyleFormatter) Format(ctx context.Context, src string, opts Options) (doc.Doc, error) {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if strings.TrimSpace(src) == "" {
		return doc.Empty, nil
	}
	if opts.Parser == CSS {
		if err := checkCSS(ctx, src); err != nil {
			return nil, err
		}
	}
	items, err := splitStyle(src, opts.Parser)
	if err != nil {
		return nil, err
	}
	return printStyle(items, opts)
}

// checkCSS rejects plain CSS that douceur cannot parse. The tree-sitter
// grammar is stricter than browsers (it refuses "margin : 0"), so it only
// locates an error douceur already reported.
func checkCSS(ctx context.Context, src string) error {
	_, cssErr := parser.Parse(src)
	if cssErr == nil {
		return nil
	}

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(css.GetLanguage())
	tree, err := p.ParseCtx(ctx, nil, []byte(src))
	if err != nil {
		return fmt.Errorf("%s: %w", CSS, err)
	}
	defer tree.Close()
	if root := tree.RootNode(); root.HasError() {
		return syntaxError(CSS, root, src, 0)
	}
	return parseErrorf(CSS, 0, 0, "%v", cssErr)
}

type styleItemKind uint8

const (
	styleStatement styleItemKind = iota
	styleOpen
	styleClose
	styleComment
)

// styleItem is one statement, block boundary or comment of a stylesheet.
type styleItem struct {
	kind styleItemKind
	text string
	// blank is set when a blank line precedes the item.
	blank bool
	// trailing is set for comments on the same line as the previous item.
	trailing bool
}

// styleSplitter cuts a stylesheet into items.
type styleSplitter struct {
	src   string
	lang  string
	pos   int
	line  int
	depth int
	items []styleItem
}

func splitStyle(src, lang string) ([]styleItem, error) {
	s := &styleSplitter{src: src, lang: lang, line: 1}
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.items, nil
}

func (s *styleSplitter) errorf(format string, args ...any) *ParseError {
	return parseErrorf(s.lang, s.line, 0, format, args...)
}

func (s *styleSplitter) run() error {
	for {
		newlines := 0
		for s.pos < len(s.src) && isStyleSpace(s.src[s.pos]) {
			if s.src[s.pos] == '\n' {
				newlines++
				s.line++
			}
			s.pos++
		}
		if s.pos >= len(s.src) {
			break
		}
		item := styleItem{blank: newlines >= 2, trailing: newlines == 0 && len(s.items) > 0}
		rest := s.src[s.pos:]
		switch {
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return s.errorf("unterminated comment")
			}
			item.kind, item.text = styleComment, rest[:end+4]
			s.advance(end + 4)
		case strings.HasPrefix(rest, "//") && s.lang != CSS:
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			item.kind, item.text = styleComment, strings.TrimRight(rest[:end], " \t")
			s.advance(end)
		case rest[0] == '}':
			if s.depth == 0 {
				return s.errorf("unexpected }")
			}
			s.depth--
			item.kind, item.trailing = styleClose, false
			s.advance(1)
		default:
			item.trailing = false
			kind, text, err := s.statement()
			if err != nil {
				return err
			}
			if kind == styleStatement && strings.TrimSpace(text) == "" {
				continue
			}
			item.kind, item.text = kind, text
		}
		s.items = append(s.items, item)
	}
	if s.depth > 0 {
		return s.errorf("unclosed block")
	}
	return nil
}

func (s *styleSplitter) advance(n int) {
	s.line += strings.Count(s.src[s.pos:s.pos+n], "\n")
	s.pos += n
}

// statement reads up to the end of a declaration or the opening brace of
// a block.
func (s *styleSplitter) statement() (styleItemKind, string, error) {
	start := s.pos
	parens := 0
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '"' || c == '\'':
			if err := s.skipString(c); err != nil {
				return 0, "", err
			}
			continue
		case strings.HasPrefix(s.src[s.pos:], "/*"):
			end := strings.Index(s.src[s.pos+2:], "*/")
			if end < 0 {
				return 0, "", s.errorf("unterminated comment")
			}
			s.advance(end + 4)
			continue
		case c == '/' && s.lang != CSS && strings.HasPrefix(s.src[s.pos:], "//") && parens <= 0 &&
			(s.pos == start || isStyleSpace(s.src[s.pos-1])):
			return 0, "", s.errorf("line comment inside a statement")
		case (c == '#' || c == '@') && strings.HasPrefix(s.src[s.pos+1:], "{"):
			if err := s.skipInterpolation(); err != nil {
				return 0, "", err
			}
			continue
		case c == '(':
			parens++
		case c == ')':
			parens--
		case c == ';' && parens <= 0:
			text := s.src[start:s.pos]
			s.advance(1)
			return styleStatement, text, nil
		case c == '{' && parens <= 0:
			text := s.src[start:s.pos]
			s.advance(1)
			s.depth++
			return styleOpen, text, nil
		case c == '}' && parens <= 0:
			return styleStatement, s.src[start:s.pos], nil
		}
		s.advance(1)
	}
	return styleStatement, s.src[start:], nil
}

func (s *styleSplitter) skipString(quote byte) error {
	s.advance(1)
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.advance(min(2, len(s.src)-s.pos))
			continue
		case '\n':
			return s.errorf("unterminated string")
		case quote:
			s.advance(1)
			return nil
		}
		s.advance(1)
	}
	return s.errorf("unterminated string")
}

// skipInterpolation skips #{...} or @{...}.
func (s *styleSplitter) skipInterpolation() error {
	depth := 0
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				s.advance(1)
				return nil
			}
		}
		s.advance(1)
	}
	return s.errorf("unterminated interpolation")
}

func isStyleSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func printStyle(items []styleItem, opts Options) (doc.Doc, error) {
	unit := opts.indentUnit()
	var out doc.Concat
	depth := 0
	var prev styleItemKind
	for i, it := range items {
		indent := strings.Repeat(unit, depth)
		if it.kind == styleComment && it.trailing {
			out = append(out, doc.Text(" "), commentDoc(it.text))
			prev = it.kind
			continue
		}
		if i > 0 {
			out = append(out, doc.Hardline)
			if it.blank && prev != styleOpen && it.kind != styleClose {
				out = append(out, doc.Hardline)
			}
		}
		switch it.kind {
		case styleComment:
			out = append(out, doc.Text(indent), commentDoc(it.text))
		case styleClose:
			depth--
			out = append(out, doc.Text(strings.Repeat(unit, depth)+"}"))
		case styleOpen:
			lines := formatSelector(it.text)
			for j, line := range lines {
				if j > 0 {
					out = append(out, doc.Hardline)
				}
				out = append(out, doc.Text(indent+line))
			}
			out = append(out, doc.Text(" {"))
			depth++
		case styleStatement:
			decl, err := formatDeclaration(it.text, opts.Parser)
			if err != nil {
				return nil, err
			}
			out = append(out, doc.Text(indent+decl+";"))
		}
		prev = it.kind
	}
	return out, nil
}

// commentDoc prints a comment, keeping its inner lines as written.
func commentDoc(text string) doc.Doc {
	lines := strings.Split(text, "\n")
	parts := make(doc.Concat, 0, 2*len(lines))
	for i, line := range lines {
		if i > 0 {
			parts = append(parts, doc.Literalline)
		}
		parts = append(parts, doc.Text(line))
	}
	return parts
}

// formatSelector collapses whitespace and puts every selector of a list on
// its own line. At-rule preludes stay on one line.
func formatSelector(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if strings.HasPrefix(text, "@") {
		return []string{text}
	}
	var lines []string
	depth, start := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				lines = append(lines, strings.TrimSpace(text[start:i])+",")
				start = i + 1
			}
		}
	}
	return append(lines, strings.TrimSpace(text[start:]))
}

// formatDeclaration prints "property: value" with a normalized value.
// Statements without a property, such as @import or mixin calls, are
// normalized as a whole.
func formatDeclaration(text, lang string) (string, error) {
	text = strings.TrimSpace(text)
	prop, value, ok := strings.Cut(text, ":")
	if !ok || strings.HasPrefix(text, "@") || strings.ContainsAny(prop, "({") {
		return normalizeValue(text, lang)
	}
	prop = strings.Join(strings.Fields(prop), " ")
	if strings.HasPrefix(prop, "--") {
		return prop + ": " + strings.TrimSpace(value), nil
	}
	v, err := normalizeValue(value, lang)
	if err != nil {
		return "", err
	}
	if v == "" {
		return prop + ":", nil
	}
	return prop + ": " + v, nil
}

// normalizeValue rejoins the tokens of a value with single spaces.
func normalizeValue(value, lang string) (string, error) {
	var sb strings.Builder
	s := scanner.New(value)
	space := false
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return sb.String(), nil
		case scanner.TokenError:
			return "", parseErrorf(lang, tok.Line, tok.Column, "invalid token %q", tok.Value)
		case scanner.TokenS:
			space = sb.Len() > 0
			continue
		}
		out := sb.String()
		if space && !strings.HasSuffix(out, "(") && tok.Value != ")" && tok.Value != "," {
			sb.WriteByte(' ')
		}
		space = false
		sb.WriteString(tok.Value)
		if tok.Type == scanner.TokenChar && tok.Value == "," {
			space = true
		}
	}
}
