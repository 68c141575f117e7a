// Command minicss is a thin CLI wrapper over the mincss package's
// lexer and tree builder: it loads a source (stdin or named files),
// runs it through the Scanner/Lexer/Parser pipeline, and prints tokens
// or tree nodes to stdout, diagnostics to stderr.
package main

import (
	"os"

	"github.com/mincss/mincss/cmd/minicss/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
