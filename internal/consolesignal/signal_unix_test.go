//go:build unix

package consolesignal

import (
	"os/exec"
	"syscall"
	"testing"
	"time"
)

// TestTrySignalDifferentConsole spawns a detached child (its own session, so
// sameConsole reports false) and confirms a direct ControlC delivery reaches
// it as SIGINT.
func TestTrySignalDifferentConsole(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		t.Skipf("could not start sleep: %v", err)
	}
	defer cmd.Process.Kill()

	if sameConsole(cmd.Process.Pid) {
		t.Fatal("expected child in its own session to report sameConsole() == false")
	}

	ok, err := TrySignal(cmd.Process.Pid, ControlC)
	if err != nil {
		t.Fatalf("TrySignal() err = %v", err)
	}
	if !ok {
		t.Fatal("TrySignal() reported failure")
	}

	done := make(chan struct{})
	go func() {
		cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("child did not exit after ControlC")
	}
}
