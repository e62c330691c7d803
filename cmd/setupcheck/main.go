// Package main provides the entry point for the setupcheck CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Aman-CERP/setupcheck/cmd/setupcheck/cmd"
)

func main() {
	os.Exit(run(cmd.Execute, os.Stderr))
}

// run maps every outcome of execute, including a panic, to exit status 0
// or 1. Errors are reported by execute itself; a panic is reported on
// stderr.
func run(execute func() error, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(stderr, "\nUnexpected error during verification: %v\n", r)
			code = 1
		}
	}()

	if err := execute(); err != nil {
		return 1
	}
	return 0
}
