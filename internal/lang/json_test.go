package lang

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatJSON(t *testing.T) {
	type tc struct {
		src  string
		opts Options
		want string
	}

	tests := map[string]tc{
		"object": {
			src:  `{"a":[1,2]}`,
			opts: Options{TabWidth: 2},
			want: "{\n  \"a\": [\n    1,\n    2\n  ]\n}",
		},
		"tabs": {
			src:  `{"a":true}`,
			opts: Options{UseTabs: true},
			want: "{\n\t\"a\": true\n}",
		},
		"surrounding space": {
			src:  "\n  [] \n",
			opts: Options{TabWidth: 2},
			want: "[]",
		},
		"empty": {
			src:  " ",
			want: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tt.opts.Parser = JSON
			d, err := formatJSON(context.Background(), tt.src, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(d))
		})
	}
}

func TestFormatJSONSyntaxError(t *testing.T) {
	_, err := formatJSON(context.Background(), "{\n  \"a\": }", Options{Parser: JSON})
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, JSON, parseErr.Parser)
	assert.Equal(t, 2, parseErr.Line)
}

func TestOffsetPosition(t *testing.T) {
	type tc struct {
		offset   int
		wantLine int
		wantCol  int
	}

	tests := map[string]tc{
		"start":        {offset: 0, wantLine: 1, wantCol: 1},
		"first line":   {offset: 2, wantLine: 1, wantCol: 3},
		"second line":  {offset: 4, wantLine: 2, wantCol: 1},
		"past the end": {offset: 99, wantLine: 2, wantCol: 3},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			line, col := offsetPosition("abc\nde", tt.offset)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}
