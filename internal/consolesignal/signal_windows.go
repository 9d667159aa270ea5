//go:build windows

package consolesignal

import (
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

var (
	handlerMu       sync.Mutex
	activeObserved  chan struct{}
	activeTargetPID uint32
)

var ctrlHandlerPtr = syscall.NewCallback(ctrlHandler)

// ctrlHandler is invoked by the OS on the console's handler thread for every
// process attached to the console. It records that the event fired and
// swallows it locally unless we are the intended target.
func ctrlHandler(ctrlType uint32) uintptr {
	handlerMu.Lock()
	observed := activeObserved
	target := activeTargetPID
	handlerMu.Unlock()

	if observed != nil {
		select {
		case observed <- struct{}{}:
		default:
		}
	}

	if target != 0 && target == uint32(windows.GetCurrentProcessId()) {
		return 0 // we are the target: let default processing (our own exit) continue
	}
	return 1 // handled: swallow so the OS doesn't also terminate us
}

func sameConsole(pid int) bool {
	pids := make([]uint32, 64)
	for {
		n, err := windows.GetConsoleProcessList(pids)
		if err != nil {
			return false
		}
		if int(n) <= len(pids) {
			for _, p := range pids[:n] {
				if int(p) == pid {
					return true
				}
			}
			return false
		}
		pids = make([]uint32, n)
	}
}

func trySameConsole(pid int, sig Signal) (bool, error) {
	sameConsoleMu.Lock()
	defer sameConsoleMu.Unlock()

	observed := make(chan struct{}, 1)
	handlerMu.Lock()
	activeObserved = observed
	activeTargetPID = uint32(pid)
	handlerMu.Unlock()
	defer func() {
		handlerMu.Lock()
		activeObserved = nil
		activeTargetPID = 0
		handlerMu.Unlock()
	}()

	if err := windows.SetConsoleCtrlHandler(ctrlHandlerPtr, true); err != nil {
		return false, err
	}
	defer windows.SetConsoleCtrlHandler(ctrlHandlerPtr, false)

	if err := windows.GenerateConsoleCtrlEvent(nativeEvent(sig), 0); err != nil {
		return false, err
	}

	select {
	case <-observed:
		return true, nil
	case <-time.After(handlerTimeout):
		return false, nil
	}
}

// tryDifferentConsole has no direct PID-targeted control-event API on
// Windows; delivery to a foreign console requires the embedded helper.
func tryDifferentConsole(pid int, sig Signal) (bool, error) {
	return runHelper(pid, sig)
}

func nativeEvent(sig Signal) uint32 {
	if sig == ControlBreak {
		return windows.CTRL_BREAK_EVENT
	}
	return windows.CTRL_C_EVENT
}
