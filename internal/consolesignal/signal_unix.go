//go:build unix

package consolesignal

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func sameConsole(pid int) bool {
	return getpgidSafe(pid) == unix.Getpgrp()
}

func getpgidSafe(pid int) int {
	pgid, err := unix.Getpgid(pid)
	if err != nil {
		return -1
	}
	return pgid
}

// trySameConsole delivers sig to pid's process group, intercepting it via
// signal.Notify so this process observes it without acting on it (other
// members of the group receive it normally) — unless pid is our own: then we
// don't intercept, so the
// signal's default disposition (our own exit) proceeds, mirroring
// ctrlHandler's target check on Windows.
func trySameConsole(pid int, sig Signal) (bool, error) {
	self := pid == os.Getpid()

	sameConsoleMu.Lock()
	defer sameConsoleMu.Unlock()

	native := nativeSignal(sig)

	var observed chan struct{}
	if !self {
		observed = make(chan struct{}, 1)
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, native)
		defer signal.Stop(ch)

		stop := make(chan struct{})
		defer close(stop)
		go func() {
			for {
				select {
				case <-ch:
					select {
					case observed <- struct{}{}:
					default:
					}
				case <-stop:
					return
				}
			}
		}()
	}

	pgid := getpgidSafe(pid)
	if pgid <= 0 {
		pgid = pid
	}
	if err := syscall.Kill(-pgid, native); err != nil {
		return false, err
	}

	if self {
		return true, nil
	}

	select {
	case <-observed:
		return true, nil
	case <-time.After(handlerTimeout):
		return false, nil
	}
}

func tryDifferentConsole(pid int, sig Signal) (bool, error) {
	if err := syscall.Kill(pid, nativeSignal(sig)); err != nil {
		return false, err
	}
	return true, nil
}

func nativeSignal(sig Signal) syscall.Signal {
	if sig == ControlBreak {
		return syscall.SIGTERM
	}
	return syscall.SIGINT
}
