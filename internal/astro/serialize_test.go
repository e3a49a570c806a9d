package astro

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"round trip": {
			input: `<div class="a" {...p} {x} on={f} t=` + "`v`" + `>hi {n}<!--c--></div>`,
			want:  `<div class="a" {...p} {x} on={f} t=` + "`v`" + `>hi {n}<!--c--></div>`,
		},
		"self closing normalized": {
			input: `<Foo a="1"/>`,
			want:  `<Foo a="1" />`,
		},
		"void element": {
			input: `<br>`,
			want:  `<br>`,
		},
		"unquoted value gains quotes": {
			input: `<a id=main></a>`,
			want:  `<a id="main"></a>`,
		},
		"attribute layout collapses": {
			input: "<a\n  href=\"/\"\n  id=\"x\"\n>t</a>",
			want:  `<a href="/" id="x">t</a>`,
		},
		"expression with markup": {
			input: "{list.map((i) => <li>{i}</li>)}",
			want:  "{list.map((i) => <li>{i}</li>)}",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tree, err := Parse("test.astro", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, SerializeChildren(tree, tree.Root))
		})
	}
}

func TestSerialize_SyntheticNodes(t *testing.T) {
	tree := NewTree("", "")
	text := tree.Add(Node{Kind: KindText, Value: "x"})
	frag := tree.Add(Node{Kind: KindFragment, Name: "\uE005", Children: []NodeID{text}})

	assert.Equal(t, "<\uE005>x</\uE005>", Serialize(tree, frag))
}

func TestDump(t *testing.T) {
	tree, err := Parse("test.astro", "<div id=\"a\"><b>x</b></div>")
	require.NoError(t, err)

	out := Dump(tree)
	for _, want := range []string{
		"root @1:1",
		`element <div> quoted:id="a" @1:1`,
		"element <b> @1:13",
		`text "x" @1:16`,
	} {
		assert.True(t, strings.Contains(out, want), "dump missing %q:\n%s", want, out)
	}
}
