package main

import (
	"fmt"
	"io"
	"os"

	"github.com/grindlemire/astrofmt/internal/astro"
)

// runDump implements the dump subcommand. The tree is printed even when
// the file has parse errors, so the recovery can be inspected.
func runDump(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: astrofmt dump file.astro")
		return &ExitError{Code: 2}
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	tree, parseErr := astro.Parse(args[0], string(source))
	fmt.Fprint(stdout, astro.Dump(tree))
	return parseErr
}
