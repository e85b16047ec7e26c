// fat12 prints the layout of a FAT12 image and extracts one file of its root directory.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, afero.NewOsFs()))
}

// run executes the command and returns the exit code.
func run(args []string, stdout, stderr io.Writer, fs afero.Fs) int {
	cmd := newRootCommand(fs)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	return 0
}
