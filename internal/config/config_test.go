package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	type tc struct {
		mutate  func(*Options)
		wantErr string
	}

	tests := map[string]tc{
		"defaults are valid": {
			mutate: func(*Options) {},
		},
		"zero print width": {
			mutate:  func(o *Options) { o.PrintWidth = 0 },
			wantErr: "print_width must be positive",
		},
		"bad whitespace mode": {
			mutate:  func(o *Options) { o.WhitespaceSensitivity = "loose" },
			wantErr: "whitespace_sensitivity",
		},
		"bad sort order": {
			mutate:  func(o *Options) { o.SortOrder = "styles" },
			wantErr: "sort_order",
		},
		"bad end of line": {
			mutate:  func(o *Options) { o.EndOfLine = "cr" },
			wantErr: "end_of_line",
		},
		"sort orders accepted": {
			mutate: func(o *Options) { o.SortOrder = SortStylesMarkup },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			o := Default()
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse(t *testing.T) {
	type tc struct {
		src     string
		env     map[string]string
		want    func(Options) Options
		wantErr string
	}

	tests := map[string]tc{
		"empty file keeps base": {
			src:  "",
			want: func(o Options) Options { return o },
		},
		"all attributes": {
			src: `
print_width = 100
tab_width = 4
use_tabs = true
end_of_line = "crlf"
single_quote = true
single_attribute_per_line = true
bracket_same_line = true
whitespace_sensitivity = "ignore"
allow_shorthand = true
skip_frontmatter = true
sort_order = "styles | markup"
`,
			want: func(o Options) Options {
				o.PrintWidth = 100
				o.TabWidth = 4
				o.UseTabs = true
				o.EndOfLine = EndOfLineCRLF
				o.SingleQuote = true
				o.SingleAttributePerLine = true
				o.BracketSameLine = true
				o.WhitespaceSensitivity = WhitespaceIgnore
				o.AllowShorthand = true
				o.SkipFrontmatter = true
				o.SortOrder = SortStylesMarkup
				return o
			},
		},
		"environment reference": {
			src: `print_width = env.ASTROFMT_TEST_WIDTH`,
			env: map[string]string{"ASTROFMT_TEST_WIDTH": "120"},
			want: func(o Options) Options {
				o.PrintWidth = 120
				return o
			},
		},
		"satisfied min version": {
			src:  `min_version = "0.1.0"`,
			want: func(o Options) Options { return o },
		},
		"unsatisfied min version": {
			src:     `min_version = "v99.0.0"`,
			wantErr: "requires astrofmt v99.0.0 or newer",
		},
		"invalid min version": {
			src:     `min_version = "latest"`,
			wantErr: "not a semantic version",
		},
		"unknown attribute": {
			src:     `indent = 3`,
			wantErr: "failed to decode config",
		},
		"invalid value": {
			src:     `whitespace_sensitivity = "none"`,
			wantErr: "whitespace_sensitivity",
		},
		"syntax error": {
			src:     `print_width = `,
			wantErr: "failed to parse config",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			base := Default()
			got, err := Parse([]byte(tt.src), "test.hcl", base)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, base, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want(base), got)
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pages")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := Find(nested)
	require.NoError(t, err)
	if found != "" {
		// a config file above the temp dir would shadow the test
		t.Skipf("unexpected config file %s above temp dir", found)
	}

	cfgPath := filepath.Join(root, FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("tab_width = 8\n"), 0o644))

	found, err = Find(nested)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, found)

	opts, err := Load(found, Default())
	require.NoError(t, err)
	assert.Equal(t, 8, opts.TabWidth)
	assert.Equal(t, 80, opts.PrintWidth)
}

func TestEOL(t *testing.T) {
	o := Default()
	assert.Equal(t, "\n", o.EOL())
	o.EndOfLine = EndOfLineCRLF
	assert.Equal(t, "\r\n", o.EOL())
}
