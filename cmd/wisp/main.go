// Command wisp renders Mustache templates from the command line: a thin
// shell around the wisp package's Environment, in the options-struct +
// cobra.Command style common to cobra-based CLIs.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wisp:", err)
		os.Exit(1)
	}
}
