package wrap

import (
	"context"
	"os"
	"os/exec"
)

// runCommand executes the compiler with the caller's stdio attached, so
// diagnostics, colors, and interactive prompts pass through untouched.
func runCommand(ctx context.Context, exe string, args []string) error {
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
