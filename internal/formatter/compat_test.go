package formatter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/config"
	"github.com/grindlemire/astrofmt/internal/doc"
)

func TestMakeCompatible(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"plain script": {
			input: `{a + b}`,
			want:  `a + b`,
		},
		"single tag": {
			input: `{show && <b></b>}`,
			want:  `show && <b></b>`,
		},
		"tag run": {
			input: `{<a></a><b></b>}`,
			want:  "<" + fragmentName + "><a></a><b></b></" + fragmentName + ">",
		},
		"tags split by script": {
			input: `{a ? <b></b> : <i></i>}`,
			want:  `a ? <b></b> : <i></i>`,
		},
		"nested run": {
			input: `{<ul><li></li><li></li></ul>}`,
			want:  "<ul><" + fragmentName + "><li></li><li></li></" + fragmentName + "></ul>",
		},
		"attribute names": {
			input: `{<b @click="f" x.y="1" a?="2" {...rest}></b>}`,
			want:  "<b " + atMark + `click="f" x` + dotMark + `y="1" a` + questionMark + `="2" {...rest}></b>`,
		},
		"shorthand": {
			input: `{<b {id}></b>}`,
			want:  "<b " + openBraceMark + "id" + closeBraceMark + "></b>",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tree, err := astro.Parse("test.astro", tt.input)
			require.NoError(t, err)
			expr := tree.Children(tree.Root)[0]
			p := newPrinter(context.Background(), tree, config.Default(), nil)

			got := astro.SerializeChildren(tree, p.makeCompatible(expr))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, astro.Serialize(tree, expr))

			restored := doc.Print(restoreCompat(doc.Text(got)), doc.Options{Width: 80})
			assert.Equal(t, tt.input[1:len(tt.input)-1], restored)
		})
	}
}
