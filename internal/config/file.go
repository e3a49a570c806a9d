package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/mod/semver"
)

// FileName is the name of the configuration file looked up next to formatted files.
const FileName = ".astrofmt.hcl"

// hclConfigFile represents the structure of a config file for decoding.
// Pointer fields distinguish unset attributes from zero values.
type hclConfigFile struct {
	MinVersion             *string `hcl:"min_version,optional"`
	PrintWidth             *int    `hcl:"print_width,optional"`
	TabWidth               *int    `hcl:"tab_width,optional"`
	UseTabs                *bool   `hcl:"use_tabs,optional"`
	EndOfLine              *string `hcl:"end_of_line,optional"`
	SingleQuote            *bool   `hcl:"single_quote,optional"`
	SingleAttributePerLine *bool   `hcl:"single_attribute_per_line,optional"`
	BracketSameLine        *bool   `hcl:"bracket_same_line,optional"`
	WhitespaceSensitivity  *string `hcl:"whitespace_sensitivity,optional"`
	AllowShorthand         *bool   `hcl:"allow_shorthand,optional"`
	SkipFrontmatter        *bool   `hcl:"skip_frontmatter,optional"`
	SortOrder              *string `hcl:"sort_order,optional"`
}

// Find walks up from dir looking for FileName. It returns "" when none exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("checking %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads the config file at path and applies its attributes over base.
func Load(path string, base Options) (Options, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(src, path, base)
}

// Parse decodes HCL config source and applies its attributes over base.
// Expressions may reference the process environment as env.NAME.
func Parse(src []byte, filename string, base Options) (Options, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return base, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}

	var cfg hclConfigFile
	diags = gohcl.DecodeBody(file.Body, evalContext(), &cfg)
	if diags.HasErrors() {
		return base, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}

	if cfg.MinVersion != nil {
		if err := checkVersion(*cfg.MinVersion); err != nil {
			return base, fmt.Errorf("config %s: %w", filename, err)
		}
	}

	opts := cfg.apply(base)
	if err := opts.Validate(); err != nil {
		return base, fmt.Errorf("config %s: %w", filename, err)
	}
	return opts, nil
}

func (c hclConfigFile) apply(o Options) Options {
	setInt(&o.PrintWidth, c.PrintWidth)
	setInt(&o.TabWidth, c.TabWidth)
	setBool(&o.UseTabs, c.UseTabs)
	setString(&o.EndOfLine, c.EndOfLine)
	setBool(&o.SingleQuote, c.SingleQuote)
	setBool(&o.SingleAttributePerLine, c.SingleAttributePerLine)
	setBool(&o.BracketSameLine, c.BracketSameLine)
	setString(&o.WhitespaceSensitivity, c.WhitespaceSensitivity)
	setBool(&o.AllowShorthand, c.AllowShorthand)
	setBool(&o.SkipFrontmatter, c.SkipFrontmatter)
	setString(&o.SortOrder, c.SortOrder)
	return o
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// evalContext exposes the process environment to config expressions.
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" || !hclIdent(name) {
			continue
		}
		env[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// hclIdent reports whether name can be used as an attribute name after env.
func hclIdent(name string) bool {
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// checkVersion fails when the running tool is older than minVersion.
func checkVersion(minVersion string) error {
	v := minVersion
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("min_version %q is not a semantic version", minVersion)
	}
	if semver.Compare(Version, v) < 0 {
		return fmt.Errorf("requires astrofmt %s or newer, running %s", v, Version)
	}
	return nil
}
