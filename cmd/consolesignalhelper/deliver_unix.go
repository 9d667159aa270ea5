//go:build unix

package main

import (
	"fmt"
	"syscall"
)

func deliver(pid int, name string) error {
	sig := syscall.SIGINT
	if name == "CTRL_BREAK" {
		sig = syscall.SIGTERM
	}
	if err := syscall.Kill(pid, sig); err != nil {
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return nil
}
