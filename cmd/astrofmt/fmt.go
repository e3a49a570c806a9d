package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/astrofmt/internal/config"
	"github.com/grindlemire/astrofmt/internal/ctxlog"
	"github.com/grindlemire/astrofmt/internal/lang"
	"github.com/grindlemire/astrofmt/pkg/formatter"
)

// fmtSettings holds the fmt flags that are not formatting options.
type fmtSettings struct {
	check         bool
	stdout        bool
	configPath    string
	stdinFilename string
	jobs          int
	logLevel      string
	logFormat     string
}

// optionFlags copies each option flag from the parsed flag values onto a
// resolved set of options. Only flags given on the command line are applied.
var optionFlags = map[string]func(dst *config.Options, src config.Options){
	"print-width":               func(dst *config.Options, src config.Options) { dst.PrintWidth = src.PrintWidth },
	"tab-width":                 func(dst *config.Options, src config.Options) { dst.TabWidth = src.TabWidth },
	"use-tabs":                  func(dst *config.Options, src config.Options) { dst.UseTabs = src.UseTabs },
	"end-of-line":               func(dst *config.Options, src config.Options) { dst.EndOfLine = src.EndOfLine },
	"single-quote":              func(dst *config.Options, src config.Options) { dst.SingleQuote = src.SingleQuote },
	"single-attribute-per-line": func(dst *config.Options, src config.Options) { dst.SingleAttributePerLine = src.SingleAttributePerLine },
	"bracket-same-line":         func(dst *config.Options, src config.Options) { dst.BracketSameLine = src.BracketSameLine },
	"whitespace-sensitivity":    func(dst *config.Options, src config.Options) { dst.WhitespaceSensitivity = src.WhitespaceSensitivity },
	"allow-shorthand":           func(dst *config.Options, src config.Options) { dst.AllowShorthand = src.AllowShorthand },
	"skip-frontmatter":          func(dst *config.Options, src config.Options) { dst.SkipFrontmatter = src.SkipFrontmatter },
	"sort-order":                func(dst *config.Options, src config.Options) { dst.SortOrder = src.SortOrder },
}

// runFmt implements the fmt subcommand.
func runFmt(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flagSet := flag.NewFlagSet("fmt", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() {
		fmt.Fprintln(stderr, "usage: astrofmt fmt [options] [path...]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Paths may be files, directories, or dir/... for recursion.")
		fmt.Fprintln(stderr, "With no paths, stdin is formatted to stdout.")
		fmt.Fprintln(stderr)
		flagSet.PrintDefaults()
	}

	var s fmtSettings
	flagSet.BoolVar(&s.check, "check", false, "report unformatted files without modifying them")
	flagSet.BoolVar(&s.stdout, "stdout", false, "print formatted output instead of writing files")
	flagSet.StringVar(&s.configPath, "config", "", "config file to use instead of looking up "+config.FileName)
	flagSet.StringVar(&s.stdinFilename, "stdin-filename", "stdin.astro", "file name used in messages when formatting stdin")
	flagSet.IntVar(&s.jobs, "jobs", runtime.GOMAXPROCS(0), "number of files formatted concurrently")
	flagSet.StringVar(&s.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flagSet.StringVar(&s.logFormat, "log-format", "text", "log format (text, json)")

	def := config.Default()
	flagOpts := def
	flagSet.IntVar(&flagOpts.PrintWidth, "print-width", def.PrintWidth, "line width the printer wraps at")
	flagSet.IntVar(&flagOpts.TabWidth, "tab-width", def.TabWidth, "spaces per indentation level")
	flagSet.BoolVar(&flagOpts.UseTabs, "use-tabs", def.UseTabs, "indent with tabs")
	flagSet.StringVar(&flagOpts.EndOfLine, "end-of-line", def.EndOfLine, "line ending (lf, crlf)")
	flagSet.BoolVar(&flagOpts.SingleQuote, "single-quote", def.SingleQuote, "prefer single quotes in attribute values")
	flagSet.BoolVar(&flagOpts.SingleAttributePerLine, "single-attribute-per-line", def.SingleAttributePerLine, "put each attribute on its own line when a tag breaks")
	flagSet.BoolVar(&flagOpts.BracketSameLine, "bracket-same-line", def.BracketSameLine, "keep the closing > of a broken tag on the last attribute line")
	flagSet.StringVar(&flagOpts.WhitespaceSensitivity, "whitespace-sensitivity", def.WhitespaceSensitivity, "whitespace handling (css, strict, ignore)")
	flagSet.BoolVar(&flagOpts.AllowShorthand, "allow-shorthand", def.AllowShorthand, "write {name} for name={name} attributes")
	flagSet.BoolVar(&flagOpts.SkipFrontmatter, "skip-frontmatter", def.SkipFrontmatter, "leave frontmatter unformatted")
	flagSet.StringVar(&flagOpts.SortOrder, "sort-order", def.SortOrder, `root section order ("markup | styles", "styles | markup")`)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2}
	}

	switch s.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid --log-level %q", s.logLevel)}
	}
	switch s.logFormat {
	case "text", "json":
	default:
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid --log-format %q", s.logFormat)}
	}
	if s.jobs < 1 {
		return &ExitError{Code: 2, Message: fmt.Sprintf("--jobs must be positive, got %d", s.jobs)}
	}

	var setFlags []string
	flagSet.Visit(func(f *flag.Flag) {
		if _, ok := optionFlags[f.Name]; ok {
			setFlags = append(setFlags, f.Name)
		}
	})

	logger := newLogger(s.logLevel, s.logFormat, stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	res := &resolver{
		explicit: s.configPath,
		flags:    flagOpts,
		setFlags: setFlags,
		cache:    map[string]config.Options{},
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		if f, ok := stdin.(*os.File); ok && isTerminal(f) {
			flagSet.Usage()
			return &ExitError{Code: 2}
		}
		return runFmtStdin(ctx, res, s, stdin, stdout)
	}

	files, err := collectAstroFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn("no .astro files found", "paths", strings.Join(paths, " "))
		return nil
	}

	return runFmtFiles(ctx, res, s, files, stdout)
}

// newLogger creates a slog.Logger writing to w at the given level and format.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// resolver computes the options for a file: defaults, then the config
// file, then the flags given on the command line.
type resolver struct {
	explicit string
	flags    config.Options
	setFlags []string
	// cache is keyed by config file path, "" meaning none was found.
	cache map[string]config.Options
}

// options resolves the options for a file in dir. It is not safe for
// concurrent use.
func (r *resolver) options(dir string) (config.Options, error) {
	path := r.explicit
	if path == "" {
		found, err := config.Find(dir)
		if err != nil {
			return config.Options{}, err
		}
		path = found
	}

	if opts, ok := r.cache[path]; ok {
		return opts, nil
	}

	opts := config.Default()
	if path != "" {
		var err error
		opts, err = config.Load(path, opts)
		if err != nil {
			return config.Options{}, err
		}
	}
	for _, name := range r.setFlags {
		optionFlags[name](&opts, r.flags)
	}
	if err := opts.Validate(); err != nil {
		return config.Options{}, &ExitError{Code: 2, Message: fmt.Sprintf("invalid options: %v", err)}
	}

	r.cache[path] = opts
	return opts, nil
}

// runFmtStdin formats stdin to stdout.
func runFmtStdin(ctx context.Context, res *resolver, s fmtSettings, stdin io.Reader, stdout io.Writer) error {
	source, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	opts, err := res.options(".")
	if err != nil {
		return err
	}

	f := &formatter.Formatter{Options: opts, Languages: lang.Default()}
	result, err := f.FormatContext(ctx, s.stdinFilename, string(source))
	if err != nil {
		return err
	}
	logDiagnostics(ctx, result.Diagnostics)

	if s.check {
		if result.Changed {
			return &ExitError{Code: 1, Message: fmt.Sprintf("%s is not formatted", s.stdinFilename)}
		}
		return nil
	}
	_, err = io.WriteString(stdout, result.Content)
	return err
}

// fileResult is the outcome of formatting one file.
type fileResult struct {
	path   string
	result formatter.FormatResult
	err    error
}

// runFmtFiles formats files concurrently and reports the results in the
// order the files were collected.
func runFmtFiles(ctx context.Context, res *resolver, s fmtSettings, files []string, stdout io.Writer) error {
	logger := ctxlog.FromContext(ctx)
	languages := lang.Default()

	results := make([]fileResult, len(files))
	var g errgroup.Group
	g.SetLimit(s.jobs)
	for i, path := range files {
		results[i].path = path
		opts, err := res.options(filepath.Dir(path))
		if err != nil {
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				_ = g.Wait()
				return err
			}
			results[i].err = err
			continue
		}
		g.Go(func() error {
			results[i].result, results[i].err = formatFile(ctx, path, opts, languages)
			return nil
		})
	}
	_ = g.Wait()

	var errCount, unformatted int
	for i, r := range results {
		if r.err != nil {
			logger.Error("failed to format file", "path", r.path, "error", r.err)
			errCount++
			continue
		}
		logDiagnostics(ctx, r.result.Diagnostics)

		switch {
		case s.check:
			if r.result.Changed {
				fmt.Fprintf(stdout, "%s is not formatted\n", r.path)
				unformatted++
			}
		case s.stdout:
			if len(files) > 1 {
				if i > 0 {
					fmt.Fprintln(stdout)
				}
				fmt.Fprintf(stdout, "<!-- %s -->\n", r.path)
			}
			fmt.Fprint(stdout, r.result.Content)
		default:
			if !r.result.Changed {
				continue
			}
			if err := writeFile(r.path, r.result.Content); err != nil {
				logger.Error("failed to write file", "path", r.path, "error", err)
				errCount++
				continue
			}
			fmt.Fprintf(stdout, "Formatted: %s\n", r.path)
		}
	}

	if errCount > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d file(s) had errors", errCount)}
	}
	if unformatted > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d file(s) not formatted", unformatted)}
	}
	return nil
}

// formatFile reads and formats a single file.
func formatFile(ctx context.Context, path string, opts config.Options, languages *lang.Registry) (formatter.FormatResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return formatter.FormatResult{}, fmt.Errorf("reading file: %w", err)
	}
	f := &formatter.Formatter{Options: opts, Languages: languages}
	return f.FormatContext(ctx, path, string(source))
}

// writeFile replaces path's content, keeping its permissions.
func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), info.Mode().Perm())
}

func logDiagnostics(ctx context.Context, diags []formatter.Diagnostic) {
	logger := ctxlog.FromContext(ctx)
	for _, d := range diags {
		logger.Warn("region left unformatted", "pos", d.Pos.String(), "parser", d.Parser, "error", d.Err)
	}
}

// collectAstroFiles expands the command line paths into .astro files.
// "dir/..." walks dir recursively, a directory lists its own .astro files,
// and a file is taken as given.
func collectAstroFiles(paths []string) ([]string, error) {
	var files []string
	seen := map[string]bool{}
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range paths {
		if dir, ok := strings.CutSuffix(arg, "..."); ok {
			dir = strings.TrimSuffix(dir, "/")
			if dir == "" || dir == "." {
				dir = "."
			}
			err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					name := d.Name()
					if path != dir && (name == "node_modules" || strings.HasPrefix(name, ".")) {
						return filepath.SkipDir
					}
					return nil
				}
				if strings.HasSuffix(path, ".astro") {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", dir, err)
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("accessing %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".astro") {
				add(filepath.Join(arg, entry.Name()))
			}
		}
	}

	return files, nil
}
