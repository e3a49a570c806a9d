package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMarkdown(t *testing.T) {
	type tc struct {
		src  string
		want string
	}

	tests := map[string]tc{
		"blocks are separated": {
			src:  "  # Title\n  text\n  more\n  - a\n  - b",
			want: "# Title\n\ntext\nmore\n\n- a\n- b",
		},
		"blank lines collapse": {
			src:  "one\n\n\n\ntwo",
			want: "one\n\ntwo",
		},
		"fenced code is kept": {
			src:  "intro\n```js\nconst a = 1;\n\n\nb();\n```",
			want: "intro\n\n```js\nconst a = 1;\n\n\nb();\n```",
		},
		"empty": {
			src:  "\n   \n",
			want: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := formatMarkdown(context.Background(), tt.src, Options{Parser: Markdown})
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(d))
		})
	}
}

func TestDedent(t *testing.T) {
	assert.Equal(t, []string{"a", "", "  b"}, dedent([]string{"    a", "", "      b"}))
	assert.Equal(t, []string{"a", " b"}, dedent([]string{"\ta", "\t b"}))
	assert.Equal(t, []string{"a", "  b"}, dedent([]string{"a", "  b"}))
}
