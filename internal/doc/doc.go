// Package doc implements the layout document language consumed by the
// formatter and the line-fitting renderer that turns it into text.
//
// A Doc is a tree of text, line breaks and grouping constructs. Groups are
// printed flat when their contents fit in the remaining width and broken
// otherwise; hard lines always break and force every enclosing group to
// break as well.
package doc

// Doc is one node of a layout document.
type Doc interface {
	doc()
}

// Text is a literal string. It should not contain newlines; use Hardline or
// Literalline instead.
type Text string

// Concat prints its parts in order.
type Concat []Doc

// GroupNode prints its contents flat if they fit, broken otherwise.
type GroupNode struct {
	Contents Doc
	Break    bool
}

// IndentNode increases the indentation of line breaks in its contents.
type IndentNode struct {
	Contents Doc
}

// DedentNode removes one level of indentation from line breaks in its contents.
type DedentNode struct {
	Contents Doc
}

// FillNode lays out alternating content and separator parts, breaking a
// separator only when the next content does not fit.
type FillNode struct {
	Parts []Doc
}

// LineNode is a possible line break. A plain line prints as a space when
// flat, a soft line prints as nothing. Hard lines always break; literal
// lines break without indentation.
type LineNode struct {
	Hard    bool
	Soft    bool
	Literal bool
}

// BreakParentNode forces all enclosing groups to break.
type BreakParentNode struct{}

// LineSuffixNode defers its contents until the next line break.
type LineSuffixNode struct {
	Contents Doc
}

// LineSuffixBoundaryNode flushes pending line suffixes with a hard break.
type LineSuffixBoundaryNode struct{}

func (Text) doc()                   {}
func (Concat) doc()                 {}
func (*GroupNode) doc()             {}
func (*IndentNode) doc()            {}
func (*DedentNode) doc()            {}
func (*FillNode) doc()              {}
func (LineNode) doc()               {}
func (BreakParentNode) doc()        {}
func (*LineSuffixNode) doc()        {}
func (LineSuffixBoundaryNode) doc() {}

var (
	// Line is a space when flat and a newline when broken.
	Line Doc = LineNode{}
	// Softline is nothing when flat and a newline when broken.
	Softline Doc = LineNode{Soft: true}
	// Hardline always breaks.
	Hardline Doc = Concat{LineNode{Hard: true}, BreakParentNode{}}
	// Literalline always breaks and ignores the current indentation.
	Literalline Doc = Concat{LineNode{Hard: true, Literal: true}, BreakParentNode{}}
	// BreakParent forces the enclosing groups to break.
	BreakParent Doc = BreakParentNode{}
	// LineSuffixBoundary forces pending line suffixes to print.
	LineSuffixBoundary Doc = LineSuffixBoundaryNode{}
	// Empty prints nothing.
	Empty Doc = Text("")
)

// Group wraps parts in a group.
func Group(parts ...Doc) Doc {
	return &GroupNode{Contents: concat(parts)}
}

// BreakingGroup wraps parts in a group that is already broken.
func BreakingGroup(parts ...Doc) Doc {
	return &GroupNode{Contents: concat(parts), Break: true}
}

// Indent indents line breaks inside parts by one level.
func Indent(parts ...Doc) Doc {
	return &IndentNode{Contents: concat(parts)}
}

// Dedent removes one indentation level from line breaks inside parts.
func Dedent(parts ...Doc) Doc {
	return &DedentNode{Contents: concat(parts)}
}

// Fill lays out alternating content and separator parts.
func Fill(parts ...Doc) Doc {
	return &FillNode{Parts: parts}
}

// LineSuffix defers parts until the next line break.
func LineSuffix(parts ...Doc) Doc {
	return &LineSuffixNode{Contents: concat(parts)}
}

// Join places sep between every pair of docs.
func Join(sep Doc, docs []Doc) Doc {
	out := make(Concat, 0, 2*len(docs))
	for i, d := range docs {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, d)
	}
	return out
}

func concat(parts []Doc) Doc {
	if len(parts) == 1 {
		return parts[0]
	}
	return Concat(parts)
}
