//go:build windows

package main

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func deliver(pid int, name string) error {
	event := windows.CTRL_C_EVENT
	if name == "CTRL_BREAK" {
		event = windows.CTRL_BREAK_EVENT
	}
	if err := windows.AttachConsole(uint32(pid)); err != nil {
		return fmt.Errorf("attach console of pid %d: %w", pid, err)
	}
	defer windows.FreeConsole()

	if err := windows.GenerateConsoleCtrlEvent(event, 0); err != nil {
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return nil
}
