package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindlemire/astrofmt/internal/config"
)

const (
	unformatted = "<div>\n<p>a</p>\n</div>"
	formatted   = "<div>\n  <p>a</p>\n</div>\n"
)

// writeFiles creates files under a temp dir and returns the dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "unexpected error: %v", err)
	return exitErr.Code
}

func TestRun(t *testing.T) {
	type tc struct {
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}

	tests := map[string]tc{
		"version": {
			args:       []string{"version"},
			wantStdout: "astrofmt version " + config.Version,
		},
		"help": {
			args:       []string{"help"},
			wantStdout: "Commands:",
		},
		"no command": {
			args:       nil,
			wantCode:   2,
			wantStderr: "Usage:",
		},
		"unknown command": {
			args:       []string{"lint"},
			wantCode:   2,
			wantStderr: "unknown command: lint",
		},
		"dump needs a file": {
			args:       []string{"dump"},
			wantCode:   2,
			wantStderr: "usage: astrofmt dump",
		},
		"bad flag": {
			args:       []string{"fmt", "--no-such-flag"},
			wantCode:   2,
			wantStderr: "flag provided but not defined",
		},
		"bad log level": {
			args:     []string{"fmt", "--log-level", "loud", "x.astro"},
			wantCode: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, strings.NewReader(""), &stdout, &stderr)
			assert.Equal(t, tt.wantCode, exitCode(t, err))
			assert.Contains(t, stdout.String(), tt.wantStdout)
			assert.Contains(t, stderr.String(), tt.wantStderr)
		})
	}
}

func TestFmtFiles(t *testing.T) {
	type tc struct {
		files      map[string]string
		args       []string
		wantCode   int
		wantStdout []string
		wantFiles  map[string]string
	}

	tests := map[string]tc{
		"in place": {
			files:      map[string]string{"a.astro": unformatted, "b.astro": formatted},
			args:       []string{"."},
			wantStdout: []string{"Formatted: ", "a.astro"},
			wantFiles:  map[string]string{"a.astro": formatted, "b.astro": formatted},
		},
		"check reports without writing": {
			files:      map[string]string{"a.astro": unformatted},
			args:       []string{"--check", "."},
			wantCode:   1,
			wantStdout: []string{"a.astro is not formatted"},
			wantFiles:  map[string]string{"a.astro": unformatted},
		},
		"check passes on formatted files": {
			files:     map[string]string{"a.astro": formatted},
			args:      []string{"--check", "."},
			wantFiles: map[string]string{"a.astro": formatted},
		},
		"stdout leaves files alone": {
			files:      map[string]string{"a.astro": unformatted},
			args:       []string{"--stdout", "a.astro"},
			wantStdout: []string{formatted},
			wantFiles:  map[string]string{"a.astro": unformatted},
		},
		"stdout with several files": {
			files:      map[string]string{"a.astro": unformatted, "b.astro": unformatted},
			args:       []string{"--stdout", "a.astro", "b.astro"},
			wantStdout: []string{"<!-- a.astro -->\n" + formatted + "\n<!-- b.astro -->\n" + formatted},
		},
		"config file": {
			files: map[string]string{
				config.FileName: "tab_width = 4\n",
				"a.astro":       unformatted,
			},
			args:      []string{"."},
			wantFiles: map[string]string{"a.astro": "<div>\n    <p>a</p>\n</div>\n"},
		},
		"flag overrides config file": {
			files: map[string]string{
				config.FileName: "tab_width = 4\n",
				"a.astro":       unformatted,
			},
			args:      []string{"--tab-width", "3", "."},
			wantFiles: map[string]string{"a.astro": "<div>\n   <p>a</p>\n</div>\n"},
		},
		"nested config file": {
			files: map[string]string{
				"sub/" + config.FileName: "use_tabs = true\n",
				"sub/a.astro":            unformatted,
				"b.astro":                unformatted,
			},
			args: []string{"./..."},
			wantFiles: map[string]string{
				"sub/a.astro": "<div>\n\t<p>a</p>\n</div>\n",
				"b.astro":     formatted,
			},
		},
		"explicit config": {
			files: map[string]string{
				"opts.hcl": "tab_width = 4\n",
				"a.astro":  unformatted,
			},
			args:      []string{"--config", "opts.hcl", "a.astro"},
			wantFiles: map[string]string{"a.astro": "<div>\n    <p>a</p>\n</div>\n"},
		},
		"parse error": {
			files:     map[string]string{"a.astro": "<div", "b.astro": unformatted},
			args:      []string{"."},
			wantCode:  1,
			wantFiles: map[string]string{"a.astro": "<div", "b.astro": formatted},
		},
		"invalid flag value": {
			files:     map[string]string{"a.astro": unformatted},
			args:      []string{"--print-width", "0", "."},
			wantCode:  2,
			wantFiles: map[string]string{"a.astro": unformatted},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			t.Chdir(dir)

			var stdout, stderr bytes.Buffer
			err := run(append([]string{"fmt"}, tt.args...), strings.NewReader(""), &stdout, &stderr)
			assert.Equal(t, tt.wantCode, exitCode(t, err), "stderr: %s", stderr.String())
			for _, want := range tt.wantStdout {
				assert.Contains(t, stdout.String(), want)
			}
			for name, want := range tt.wantFiles {
				assert.Equal(t, want, readFile(t, filepath.Join(dir, name)), name)
			}
		})
	}
}

func TestFmtStdin(t *testing.T) {
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	err := run([]string{"fmt"}, strings.NewReader(unformatted), &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, formatted, stdout.String())

	stdout.Reset()
	err = run([]string{"fmt", "--check", "--stdin-filename", "page.astro"}, strings.NewReader(unformatted), &stdout, &stderr)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), "page.astro is not formatted")
	assert.Empty(t, stdout.String())

	err = run([]string{"fmt", "--print-width", "-1"}, strings.NewReader(unformatted), &stdout, &stderr)
	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, err.Error(), "print_width must be positive")
}

func TestFmtLogsDiagnostics(t *testing.T) {
	t.Chdir(t.TempDir())

	src := "<style>\n  a { color: red\n</style>\n"
	var stdout, stderr bytes.Buffer
	err := run([]string{"fmt", "--log-format", "json"}, strings.NewReader(src), &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, src, stdout.String())
	assert.Contains(t, stderr.String(), `"msg":"region left unformatted"`)
	assert.Contains(t, stderr.String(), `"parser":"css"`)
}

func TestDump(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.astro":     `<div id="a"></div>`,
		"broken.astro": "<div",
	})

	var stdout, stderr bytes.Buffer
	err := run([]string{"dump", filepath.Join(dir, "ok.astro")}, nil, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), `element <div> quoted:id="a"`)

	stdout.Reset()
	err = run([]string{"dump", filepath.Join(dir, "broken.astro")}, nil, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated tag <div")
	assert.Contains(t, stdout.String(), "root")
}

func TestCollectAstroFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.astro":                "",
		"notes.txt":              "",
		"sub/b.astro":            "",
		"sub/deep/c.astro":       "",
		"node_modules/x/d.astro": "",
		".cache/e.astro":         "",
	})
	t.Chdir(dir)

	type tc struct {
		paths []string
		want  []string
	}

	tests := map[string]tc{
		"recursive": {
			paths: []string{"./..."},
			want:  []string{"a.astro", "sub/b.astro", "sub/deep/c.astro"},
		},
		"recursive subdir": {
			paths: []string{"sub/..."},
			want:  []string{"sub/b.astro", "sub/deep/c.astro"},
		},
		"directory": {
			paths: []string{"sub"},
			want:  []string{"sub/b.astro"},
		},
		"file": {
			paths: []string{"notes.txt"},
			want:  []string{"notes.txt"},
		},
		"duplicates": {
			paths: []string{"a.astro", ".", "./a.astro"},
			want:  []string{"a.astro"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := collectAstroFiles(tt.paths)
			require.NoError(t, err)
			want := make([]string, len(tt.want))
			for i, p := range tt.want {
				want[i] = filepath.FromSlash(p)
			}
			assert.Equal(t, want, got)
		})
	}

	_, err := collectAstroFiles([]string{"missing.astro"})
	assert.Error(t, err)
}

func TestVersionListsLanguages(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"version"}, nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "embedded languages: astro-expression, babel, babel-ts, css, html, json, less, markdown, sass, scss, typescript\n")
}
