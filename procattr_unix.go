//go:build unix

package scriptable

import (
	"os/exec"
	"syscall"
)

// applyPlatformProcAttr puts the child in its own process group, apart from
// this process's group. Kill signals only the child's PID, not the group, and
// TrySignal sees the child as outside this process's group, so it signals the
// child's PID directly rather than using the same-console strategy.
func applyPlatformProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
