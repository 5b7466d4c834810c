// Command kekbit is the CLI surface for the channel engine: create,
// write, tail, and inspect channel files. Grounded on
// marmos91-dittofs/cmd/dittofs's cobra command-tree style.
package main

import (
	"fmt"
	"os"

	"kekbit.dev/kekbit/cmd/kekbit/commands"
)

func main() {
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
