package astro

import "fmt"

// Kind identifies the closed set of node variants.
type Kind uint8

const (
	KindRoot Kind = iota
	KindFrontmatter
	KindElement
	KindComponent
	KindCustomElement
	KindFragment
	KindText
	KindExpression
	KindComment
	KindDoctype
)

var kindNames = [...]string{
	KindRoot:          "root",
	KindFrontmatter:   "frontmatter",
	KindElement:       "element",
	KindComponent:     "component",
	KindCustomElement: "custom-element",
	KindFragment:      "fragment",
	KindText:          "text",
	KindExpression:    "expression",
	KindComment:       "comment",
	KindDoctype:       "doctype",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsTag reports whether nodes of this kind carry a tag name and attributes.
func (k Kind) IsTag() bool {
	switch k {
	case KindElement, KindComponent, KindCustomElement, KindFragment:
		return true
	}
	return false
}

// AttrKind identifies the syntactic form of an attribute.
type AttrKind uint8

const (
	AttrEmpty           AttrKind = iota // name
	AttrQuoted                          // name="v", name='v' or name=v
	AttrShorthand                       // {name}
	AttrSpread                          // {...name}
	AttrExpression                      // name={expr}
	AttrTemplateLiteral                 // name=`v`
)

var attrKindNames = [...]string{
	AttrEmpty:           "empty",
	AttrQuoted:          "quoted",
	AttrShorthand:       "shorthand",
	AttrSpread:          "spread",
	AttrExpression:      "expression",
	AttrTemplateLiteral: "template-literal",
}

func (k AttrKind) String() string {
	if int(k) < len(attrKindNames) {
		return attrKindNames[k]
	}
	return fmt.Sprintf("AttrKind(%d)", k)
}

// Position represents a source code location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

// String returns a formatted position string.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) into Tree.Source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start }

// Attribute is a single attribute of a tag-like node.
type Attribute struct {
	Kind AttrKind
	Name string
	// Value is the unquoted value for quoted attributes, the source between
	// the braces for expressions and the text between the backticks for
	// template literals. For spreads Name holds the spread expression.
	Value string
	// Quote is the quote character used in the source, 0 when unquoted.
	Quote byte
	Pos   Position
	Span  Span
}

// NodeID addresses a node inside its Tree.
type NodeID int32

// NoNode is the zero reference.
const NoNode NodeID = -1

// Node is one entry of a Tree arena.
type Node struct {
	Kind Kind
	// Name is the tag name for tag-like nodes.
	Name string
	// Value holds text, comment, doctype and frontmatter content.
	Value    string
	Attrs    []Attribute
	Children []NodeID
	// SelfClosing is set when the tag was written as <x />.
	SelfClosing bool
	Pos         Position
	Span        Span
}

// Tree is an arena of nodes parsed from a single source file.
type Tree struct {
	File   string
	Source string
	Root   NodeID
	nodes  []Node
}

// NewTree returns an empty tree for the given source.
func NewTree(file, source string) *Tree {
	return &Tree{File: file, Source: source, Root: NoNode}
}

// Add appends a node and returns its id. Existing nodes are never modified,
// so transforms build replacement nodes with Add.
func (t *Tree) Add(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Valid reports whether id addresses a node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Kind returns the kind of the node with the given id.
func (t *Tree) Kind(id NodeID) Kind {
	return t.nodes[id].Kind
}

// Children returns the child ids of a node.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].Children
}

// Text returns the source slice covered by a node.
func (t *Tree) Text(id NodeID) string {
	s := t.nodes[id].Span
	if s.Start < 0 || s.End > len(t.Source) || s.Start > s.End {
		return ""
	}
	return t.Source[s.Start:s.End]
}

// Attr returns the first attribute with the given name.
func (n Node) Attr(name string) (Attribute, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// IsTag reports whether the node carries a tag name and attributes.
func (n Node) IsTag() bool { return n.Kind.IsTag() }
