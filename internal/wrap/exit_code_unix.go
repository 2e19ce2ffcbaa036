//go:build !windows

package wrap

import (
	"errors"
	"os/exec"
	"syscall"
)

// exitStatus derives the wrapper's exit code from the compiler's run
// error. Signal deaths report 128+signal and are flagged so the caller
// skips recording; failures to start at all report 127.
func exitStatus(err error) (code int, signaled bool) {
	if err == nil {
		return 0, false
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok {
			if ws.Signaled() {
				return 128 + int(ws.Signal()), true
			}
			return ws.ExitStatus(), false
		}
		return ee.ExitCode(), false
	}
	return 127, false
}
