// Package main provides the astrofmt command line tool.
//
// Usage:
//
//	astrofmt fmt [options] [path...]   Format .astro files
//	astrofmt dump file.astro           Print the syntax tree of a file
//	astrofmt version                   Print version information
//	astrofmt help                      Show help
//
// Examples:
//
//	astrofmt fmt ./...                 Recursively format all .astro files
//	astrofmt fmt --check ./src/...     Report unformatted files
//	cat page.astro | astrofmt fmt      Format stdin to stdout
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grindlemire/astrofmt/internal/config"
	"github.com/grindlemire/astrofmt/internal/lang"
)

const usage = `astrofmt - formatter for .astro files

Usage:
  astrofmt <command> [options] [path...]

Commands:
  fmt         Format .astro files
  dump        Print the syntax tree of a file
  version     Print version information
  help        Show this help message

Run 'astrofmt fmt -h' for the formatting options.

Examples:
  astrofmt fmt ./...                  Recursively format all .astro files
  astrofmt fmt ./src/pages            Format the files in a directory
  astrofmt fmt --check ./...          Check formatting without modifying
  astrofmt fmt --stdout page.astro    Print formatted output to stdout
  cat page.astro | astrofmt fmt       Format stdin to stdout
  astrofmt dump page.astro            Show how a file is parsed

Options are read from the closest .astrofmt.hcl above each file; flags
override them.
`

// ExitError ends the program with a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches a command. It is main without the process exit.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return &ExitError{Code: 2}
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "fmt":
		return runFmt(args, stdin, stdout, stderr)
	case "dump":
		return runDump(args, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "astrofmt version %s\n", config.Version)
		fmt.Fprintf(stdout, "embedded languages: %s\n", strings.Join(lang.Default().Parsers(), ", "))
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", command)
		fmt.Fprint(stderr, usage)
		return &ExitError{Code: 2}
	}
	return nil
}
