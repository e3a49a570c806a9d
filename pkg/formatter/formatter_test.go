package formatter

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/grindlemire/astrofmt/internal/config"
	"github.com/grindlemire/astrofmt/internal/ctxlog"
)

// TestGolden formats every testdata/*.txtar archive. An archive holds
// input.astro, the expected output.astro and optionally options.hcl.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		t.Run(name, func(t *testing.T) {
			archive, err := txtar.ParseFile(file)
			require.NoError(t, err)
			fixture := map[string]string{}
			for _, f := range archive.Files {
				fixture[f.Name] = string(f.Data)
			}
			require.Contains(t, fixture, "input.astro")
			require.Contains(t, fixture, "output.astro")

			f := New()
			if src, ok := fixture["options.hcl"]; ok {
				f.Options, err = config.Parse([]byte(src), "options.hcl", f.Options)
				require.NoError(t, err)
			}

			res, err := f.FormatWithResult(name+".astro", fixture["input.astro"])
			require.NoError(t, err)
			assert.Empty(t, res.Diagnostics)
			if diff := cmp.Diff(fixture["output.astro"], res.Content); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}

			again, err := f.Format(name+".astro", res.Content)
			require.NoError(t, err)
			if diff := cmp.Diff(res.Content, again); diff != "" {
				t.Errorf("formatting is not idempotent (-first +second):\n%s", diff)
			}
		})
	}
}

func TestFormatWithResult(t *testing.T) {
	type tc struct {
		input       string
		wantChanged bool
	}

	tests := map[string]tc{
		"already formatted": {
			input:       "<div>\n  <p>a</p>\n</div>\n",
			wantChanged: false,
		},
		"reformatted": {
			input:       "<div>\n<p>a</p>\n</div>",
			wantChanged: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := New().FormatWithResult("test.astro", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, res.Changed)
			assert.Equal(t, "<div>\n  <p>a</p>\n</div>\n", res.Content)
		})
	}
}

func TestFormatParseError(t *testing.T) {
	_, err := New().Format("broken.astro", "<div")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.astro:1:1")
	assert.Contains(t, err.Error(), "unterminated tag <div")
}

func TestFormatNilLanguages(t *testing.T) {
	f := &Formatter{Options: config.Default()}
	out, err := f.Format("test.astro", "<style>\na{color:red}\n</style>")
	require.NoError(t, err)
	assert.Equal(t, "<style>\n  a {\n    color: red;\n  }\n</style>\n", out)
}

func TestFormatContextLogsFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	src := "<style>\n  a { color: red\n</style>\n"
	res, err := New().FormatContext(ctx, "test.astro", src)
	require.NoError(t, err)
	assert.Equal(t, src, res.Content)
	assert.False(t, res.Changed)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "css", res.Diagnostics[0].Parser)

	assert.Contains(t, buf.String(), `"msg":"embedded region left unformatted"`)
	assert.Contains(t, buf.String(), `"parser":"css"`)
	assert.Contains(t, buf.String(), `"pos":"test.astro:1:1"`)
}
