package lang

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleFormatter(t *testing.T) {
	type tc struct {
		parser string
		src    string
		want   string
	}

	tests := map[string]tc{
		"declarations": {
			parser: CSS,
			src:    "a{color:red;background:blue}",
			want:   "a {\n  color: red;\n  background: blue;\n}",
		},
		"selector list": {
			parser: CSS,
			src:    "a,  b > c { margin : 0 }",
			want:   "a,\nb > c {\n  margin: 0;\n}",
		},
		"value spacing": {
			parser: CSS,
			src:    "a { font-family: Arial,sans-serif; transform: translate( 1px , 2px ) }",
			want:   "a {\n  font-family: Arial, sans-serif;\n  transform: translate(1px, 2px);\n}",
		},
		"blank line kept once": {
			parser: CSS,
			src:    "a { color: red; }\n\n\n\nb { color: blue; }",
			want:   "a {\n  color: red;\n}\n\nb {\n  color: blue;\n}",
		},
		"blank line dropped after open": {
			parser: CSS,
			src:    "a {\n\n  color: red;\n\n}",
			want:   "a {\n  color: red;\n}",
		},
		"comments": {
			parser: CSS,
			src:    "/* top */\na { color: red; /* why */ }",
			want:   "/* top */\na {\n  color: red; /* why */\n}",
		},
		"custom property kept": {
			parser: CSS,
			src:    "a { --gap:  1px   2px; }",
			want:   "a {\n  --gap: 1px   2px;\n}",
		},
		"at-rule": {
			parser: CSS,
			src:    "@media (min-width:640px){a{color:red}}",
			want:   "@media (min-width:640px) {\n  a {\n    color: red;\n  }\n}",
		},
		"scss nesting and line comments": {
			parser: SCSS,
			src:    "// colors\n$c: red;\na {\n  &:hover { color: $c; }\n}",
			want:   "// colors\n$c: red;\na {\n  &:hover {\n    color: $c;\n  }\n}",
		},
		"less": {
			parser: Less,
			src:    "@c: red;\na { color: @c; }",
			want:   "@c: red;\na {\n  color: @c;\n}",
		},
		"empty": {
			parser: CSS,
			src:    "  \n ",
			want:   "",
		},
	}

	f := NewStyleFormatter()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := f.Format(context.Background(), tt.src, Options{Parser: tt.parser, TabWidth: 2})
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(d))
		})
	}
}

func TestStyleFormatterErrors(t *testing.T) {
	type tc struct {
		parser string
		src    string
	}

	tests := map[string]tc{
		"unclosed block":       {parser: CSS, src: "a { color: red"},
		"unexpected close":     {parser: SCSS, src: "a { color: red; } }"},
		"unterminated string":  {parser: SCSS, src: "a { content: \"x\n; }"},
		"unterminated comment": {parser: Less, src: "a { /* x }"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewStyleFormatter().Format(context.Background(), tt.src, Options{Parser: tt.parser})
			require.Error(t, err)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.parser, parseErr.Parser)
		})
	}
}

func TestCheckCSSAcceptsLooseSpacing(t *testing.T) {
	for _, src := range []string{
		"a { margin : 0 }",
		"a{color:red}",
		"@media (min-width:640px){a{color:red}}",
	} {
		assert.NoError(t, checkCSS(context.Background(), src), src)
	}
}

func TestFormatSelector(t *testing.T) {
	assert.Equal(t, []string{"a,", "b:is(c, d)"}, formatSelector(" a ,\n b:is(c, d) "))
	assert.Equal(t, []string{"@media screen,print"}, formatSelector("@media  screen,print"))
}
