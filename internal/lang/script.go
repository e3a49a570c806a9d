package lang

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/grindlemire/astrofmt/internal/doc"
)

// indentNodes open an indentation level for the lines they span.
var indentNodes = map[string]bool{
	"statement_block":          true,
	"class_body":               true,
	"object":                   true,
	"object_pattern":           true,
	"array":                    true,
	"array_pattern":            true,
	"arguments":                true,
	"formal_parameters":        true,
	"parenthesized_expression": true,
	"switch_body":              true,
	"switch_case":              true,
	"switch_default":           true,
	"named_imports":            true,
	"export_clause":            true,
	"variable_declarator":      true,
	"assignment_expression":    true,
	"member_expression":        true,
	"ternary_expression":       true,
	"arrow_function":           true,
	"pair":                     true,
	"jsx_element":              true,
	"jsx_opening_element":      true,
	"jsx_self_closing_element": true,
	"jsx_expression":           true,
	"object_type":              true,
	"interface_body":           true,
	"enum_body":                true,
	"type_arguments":           true,
	"type_parameters":          true,
}

// literalNodes keep their inner lines exactly as written.
var literalNodes = map[string]bool{
	"string":          true,
	"template_string": true,
	"comment":         true,
	"regex":           true,
}

// ScriptFormatter formats JavaScript, TypeScript and markup expressions.
// It checks the syntax with tree-sitter and re-indents every line by its
// nesting in the syntax tree. Text inside lines is left as written.
type ScriptFormatter struct{}

// NewScriptFormatter returns a script formatter.
func NewScriptFormatter() *ScriptFormatter {
	return &ScriptFormatter{}
}

// Format implements Formatter.
func (f *ScriptFormatter) Format(ctx context.Context, src string, opts Options) (doc.Doc, error) {
	code := trimScript(src)
	if code == "" {
		return doc.Empty, nil
	}

	grammar := scriptGrammar(opts.Parser)
	// An expression is parsed in parentheses unless it only holds comments.
	if opts.Parser == AstroExpression && !onlyComments(ctx, grammar, code) {
		return layoutScript(ctx, grammar, opts, code, "(")
	}
	return layoutScript(ctx, grammar, opts, code, "")
}

func scriptGrammar(parser string) *sitter.Language {
	switch parser {
	case Babel:
		return javascript.GetLanguage()
	case AstroExpression:
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

// trimScript normalizes line endings and drops blank lines and trailing
// whitespace around the code.
func trimScript(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.TrimRight(src, " \t\n\r\f")
	for {
		nl := strings.IndexByte(src, '\n')
		if nl < 0 || strings.TrimSpace(src[:nl]) != "" {
			break
		}
		src = src[nl+1:]
	}
	return src
}

func parseScript(ctx context.Context, grammar *sitter.Language, input string) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)
	return parser.ParseCtx(ctx, nil, []byte(input))
}

func onlyComments(ctx context.Context, grammar *sitter.Language, code string) bool {
	tree, err := parseScript(ctx, grammar, code)
	if err != nil {
		return false
	}
	defer tree.Close()
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if root.NamedChild(i).Type() != "comment" {
			return false
		}
	}
	return true
}

// layoutScript parses prefix+code and prints code one line per hard line.
// A non-empty prefix is closed on a line after the code.
func layoutScript(ctx context.Context, grammar *sitter.Language, opts Options, code, prefix string) (doc.Doc, error) {
	input := code
	if prefix != "" {
		input = prefix + code + "\n)"
	}
	tree, err := parseScript(ctx, grammar, input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Parser, err)
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(opts.Parser, root, input, len(prefix))
	}

	l := scriptLayout{root: root, skip: uint32(len(prefix)), unit: opts.indentUnit()}
	return l.print(code), nil
}

type scriptLayout struct {
	root *sitter.Node
	// skip is the length of the wrapping prefix; nodes starting inside it
	// are not indentation sources.
	skip uint32
	unit string
}

func (l scriptLayout) print(code string) doc.Doc {
	lines := strings.Split(code, "\n")
	var out doc.Concat
	offset := l.skip
	blank := false
	for i, line := range lines {
		start := offset
		offset += uint32(len(line)) + 1

		if i > 0 && l.inLiteral(start) {
			out = append(out, doc.Literalline, doc.Text(line))
			blank = false
			continue
		}
		content := strings.TrimLeft(line, " \t\f")
		if i+1 == len(lines) || !l.inLiteral(offset-1) {
			content = strings.TrimRight(content, " \t\f\r")
		}
		if content == "" {
			blank = len(out) > 0
			continue
		}
		if len(out) > 0 {
			out = append(out, doc.Hardline)
			if blank {
				out = append(out, doc.Hardline)
			}
		}
		blank = false
		level := l.level(start+uint32(len(line)-len(strings.TrimLeft(line, " \t\f"))), i, content)
		out = append(out, doc.Text(strings.Repeat(l.unit, level)+content))
	}
	return out
}

// ancestors returns the chain of nodes from the root down to the smallest
// node containing pos.
func (l scriptLayout) ancestors(pos uint32) []*sitter.Node {
	chain := []*sitter.Node{l.root}
	n := l.root
	for {
		var next *sitter.Node
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.StartByte() <= pos && pos < c.EndByte() {
				next = c
				break
			}
		}
		if next == nil {
			return chain
		}
		chain = append(chain, next)
		n = next
	}
}

// inLiteral reports whether pos is inside a string, template or comment
// that started before it.
func (l scriptLayout) inLiteral(pos uint32) bool {
	for _, n := range l.ancestors(pos) {
		if literalNodes[n.Type()] && n.StartByte() < pos {
			return true
		}
	}
	return false
}

// level counts the distinct earlier lines that opened an indentation node
// still enclosing the line. Nodes closed by the line's leading bracket do
// not count.
func (l scriptLayout) level(pos uint32, row int, content string) int {
	closes := startsWithCloser(content)
	rows := map[uint32]bool{}
	for _, n := range l.ancestors(pos) {
		if !indentNodes[n.Type()] || n.StartByte() < l.skip {
			continue
		}
		start, end := n.StartPoint().Row, n.EndPoint().Row
		if int(start) >= row {
			continue
		}
		if closes && int(end) == row {
			continue
		}
		rows[start] = true
	}
	return len(rows)
}

func startsWithCloser(s string) bool {
	return strings.HasPrefix(s, "}") ||
		strings.HasPrefix(s, ")") ||
		strings.HasPrefix(s, "]") ||
		strings.HasPrefix(s, ">") ||
		strings.HasPrefix(s, "/>") ||
		strings.HasPrefix(s, "</")
}

// syntaxError reports the first error or missing node below root.
func syntaxError(parser string, root *sitter.Node, input string, prefix int) *ParseError {
	n := firstError(root)
	if n == nil {
		return parseErrorf(parser, 0, 0, "syntax error")
	}
	p := n.StartPoint()
	col := int(p.Column) + 1
	if p.Row == 0 {
		col -= prefix
	}
	if n.IsMissing() {
		return parseErrorf(parser, int(p.Row)+1, col, "missing %s", n.Type())
	}
	text := input[n.StartByte():n.EndByte()]
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	if len(text) > 20 {
		text = text[:20]
	}
	return parseErrorf(parser, int(p.Row)+1, col, "unexpected %q", text)
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if e := firstError(n.Child(i)); e != nil {
			return e
		}
	}
	return nil
}
