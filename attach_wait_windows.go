//go:build windows

package scriptable

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func processAlive(pid int) bool {
	h, err := windows.OpenProcess(windows.SYNCHRONIZE, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	event, err := windows.WaitForSingleObject(h, 0)
	return err == nil && event == uint32(windows.WAIT_TIMEOUT)
}

// waitForExit opens the process with SYNCHRONIZE access and blocks on
// WaitForSingleObject, the documented way to wait on a foreign process
// handle on Windows.
func waitForExit(pid int) error {
	h, err := windows.OpenProcess(windows.SYNCHRONIZE, false, uint32(pid))
	if err != nil {
		// Already exited, or inaccessible; either way there's nothing left
		// to wait on.
		return nil
	}
	defer windows.CloseHandle(h)

	event, err := windows.WaitForSingleObject(h, windows.INFINITE)
	if err != nil {
		return fmt.Errorf("WaitForSingleObject: %w", err)
	}
	if event != windows.WAIT_OBJECT_0 {
		return fmt.Errorf("WaitForSingleObject: unexpected event %d", event)
	}
	return nil
}
