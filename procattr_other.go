//go:build !unix

package scriptable

import "os/exec"

// applyPlatformProcAttr is a no-op on platforms without POSIX process
// groups (Windows job objects would be the analogue but aren't needed here:
// Kill already terminates the single child process handle directly).
func applyPlatformProcAttr(cmd *exec.Cmd) {}
