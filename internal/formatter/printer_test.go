package formatter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/config"
	"github.com/grindlemire/astrofmt/internal/doc"
)

func TestPrintUnknownNode(t *testing.T) {
	tree := astro.NewTree("test.astro", "")
	text := tree.Add(astro.Node{Kind: astro.KindText, Value: "x"})
	fm := tree.Add(astro.Node{
		Kind:  astro.KindFrontmatter,
		Value: "\nconst a = 1;\n",
		Pos:   astro.Position{File: "test.astro", Line: 2, Column: 1},
	})
	tree.Root = tree.Add(astro.Node{Kind: astro.KindRoot, Children: []astro.NodeID{text, fm}})

	var rec recorder
	d, _, err := Print(context.Background(), tree, config.Default(), rec.registry())
	require.Error(t, err)
	assert.Nil(t, d)

	var unknown *UnknownNodeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, astro.KindFrontmatter, unknown.Kind)
	assert.Equal(t, "test.astro:2:1: unknown node kind \"frontmatter\"", err.Error())
	assert.Empty(t, rec.calls)
}

func TestPrintNestedRoot(t *testing.T) {
	tree := astro.NewTree("test.astro", "")
	inner := tree.Add(astro.Node{Kind: astro.KindRoot})
	div := tree.Add(astro.Node{Kind: astro.KindElement, Name: "div", Children: []astro.NodeID{inner}})
	tree.Root = tree.Add(astro.Node{Kind: astro.KindRoot, Children: []astro.NodeID{div}})

	var rec recorder
	_, _, err := Print(context.Background(), tree, config.Default(), rec.registry())
	var unknown *UnknownNodeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, astro.KindRoot, unknown.Kind)
}

func TestPrintLeavesTreeUntouched(t *testing.T) {
	src := "<div> a </div>{<a /><b {x} />}"
	tree, err := astro.Parse("test.astro", src)
	require.NoError(t, err)
	before := tree.Len()
	nodes := make([]astro.Node, before)
	for i := range nodes {
		nodes[i] = tree.Node(astro.NodeID(i))
	}

	var rec recorder
	_, _, err = Print(context.Background(), tree, config.Default(), rec.registry())
	require.NoError(t, err)

	assert.Greater(t, tree.Len(), before)
	for i := range nodes {
		assert.Equal(t, nodes[i], tree.Node(astro.NodeID(i)))
	}
	assert.Equal(t, src, astro.Serialize(tree, tree.Root))
}

func TestVerbatim(t *testing.T) {
	type tc struct {
		in   string
		want string
	}

	tests := map[string]tc{
		"single line": {in: "a  b", want: `"a  b"`},
		"lines":       {in: "a\n  b\n", want: `["a", literalline, "  b", literalline, ""]`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.Debug(verbatim(tt.in)))
		})
	}
}

func TestPrintText(t *testing.T) {
	type tc struct {
		in   string
		want string
	}

	tests := map[string]tc{
		"empty":          {in: "", want: `""`},
		"spaces":         {in: "  ", want: "line"},
		"one newline":    {in: " \n ", want: "hardline"},
		"blank line":     {in: "\n\n\n", want: "[hardline, hardline]"},
		"words":          {in: "a b", want: `fill("a", line, "b")`},
		"leading break":  {in: "\na", want: `fill(hardline, "a")`},
		"trailing space": {in: "a ", want: `fill("a", line)`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.Debug(printText(tt.in)))
		})
	}
}

func TestPath(t *testing.T) {
	children := []astro.NodeID{1, 2, 3}
	var p path
	p.push(frame{node: 0, siblings: []astro.NodeID{0}})
	p.push(frame{node: 2, siblings: children, index: 1})

	parent, ok := p.parent()
	require.True(t, ok)
	assert.Equal(t, astro.NodeID(0), parent.node)

	next, ok := p.next()
	require.True(t, ok)
	assert.Equal(t, astro.NodeID(3), next)

	p.push(frame{node: 2, attr: &astro.Attribute{Name: "class"}})
	parent, ok = p.parent()
	require.True(t, ok)
	assert.Equal(t, astro.NodeID(0), parent.node)
	p.pop()

	p.push(frame{node: 3, siblings: children, index: 2})
	_, ok = p.next()
	assert.False(t, ok)
	p.pop()
	p.pop()

	_, ok = p.parent()
	assert.False(t, ok)
}
