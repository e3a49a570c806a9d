//go:build !unix

package main

import "os"

// isTerminal reports whether f is attached to a terminal. Without ioctl
// support a character device is assumed to be one.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
