// Command ccprov-query reads the provenance database written by the
// ccprov wrapper: per-file invocation history, duration rankings, and
// compile time aggregated by directory.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ccprov/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
