// Command ccprov wraps a compiler and records each invocation in the
// provenance database. Install it as the build's compiler (CXX=ccprov)
// with CCPROV_SOURCE_ROOT pointing at the source tree; every argument
// is forwarded to the real compiler untouched and the wrapper exits
// with the compiler's own status.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/ccprov/internal/config"
	"github.com/roach88/ccprov/internal/profile"
	"github.com/roach88/ccprov/internal/wrap"
)

func main() {
	os.Exit(run())
}

// run keeps the deferred-free exit path in one place: configuration
// problems are fatal before the compiler starts (exit 2, no record),
// everything after that reports the compiler's status.
func run() int {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccprov:", err)
		return 2
	}

	prof, err := profile.Load(cfg.Profile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccprov:", err)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccprov:", err)
		return 2
	}

	runner, err := wrap.New(cfg, prof, cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ccprov:", err)
		return 2
	}

	return runner.Run(context.Background(), os.Args[1:])
}
