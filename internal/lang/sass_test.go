package lang

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSass(t *testing.T) {
	type tc struct {
		src  string
		opts Options
		want string
	}

	tests := map[string]tc{
		"reindent": {
			src:  "a\n    color: red\n\n\n    b\n        c: d",
			opts: Options{TabWidth: 2},
			want: "a\n  color: red\n\n  b\n    c: d",
		},
		"dedent to an outer level": {
			src:  "a\n   b\n      c\n   d\ne",
			opts: Options{TabWidth: 2},
			want: "a\n  b\n    c\n  d\ne",
		},
		"tabs": {
			src:  "a\n  b",
			opts: Options{UseTabs: true},
			want: "a\n\tb",
		},
		"leading blank lines": {
			src:  "\n\na\n  b\n\n",
			opts: Options{TabWidth: 4},
			want: "a\n    b",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tt.opts.Parser = Sass
			d, err := formatSass(context.Background(), tt.src, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(d))
		})
	}
}

func TestFormatSassInconsistentIndentation(t *testing.T) {
	_, err := formatSass(context.Background(), "a\n    b\n  c", Options{Parser: Sass})
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, &ParseError{Parser: Sass, Line: 3, Column: 3, Message: "inconsistent indentation"}, parseErr)
}
