// Package consolesignal delivers console control signals (Ctrl+C,
// Ctrl+Break) to a target process, including processes outside the current
// process's console or session: same-console delivery uses a local
// ignore-then-detect handler so the signal doesn't also kill us, and
// different-console delivery falls back to a direct PID signal or an
// embedded helper executable.
package consolesignal

import (
	"sync"
	"time"
)

// Signal identifies a console control signal. The set is deliberately small:
// callers needing a full POSIX signal should use os/signal directly on
// platforms where that's meaningful.
type Signal int

const (
	// ControlC is the universal "graceful interrupt" signal (SIGINT on
	// POSIX, CTRL_C_EVENT on Windows).
	ControlC Signal = iota
	// ControlBreak requests a harder stop where the platform distinguishes
	// one (CTRL_BREAK_EVENT on Windows; SIGTERM elsewhere).
	ControlBreak
)

func (s Signal) String() string {
	switch s {
	case ControlC:
		return "CTRL_C"
	case ControlBreak:
		return "CTRL_BREAK"
	default:
		return "UNKNOWN"
	}
}

// sameConsoleMu serializes every same-console delivery attempt process-wide,
// since that path mutates global signal-handler state.
var sameConsoleMu sync.Mutex

// handlerTimeout bounds how long a same-console delivery waits to observe
// its own handler fire before giving up and reporting failure.
const handlerTimeout = 30 * time.Second

// TrySignal attempts to deliver sig to pid, returning apparent success. It
// never panics. A false with nil error means the signal was sent but
// delivery could not be confirmed within the handler timeout; a non-nil
// error means the send itself failed.
func TrySignal(pid int, sig Signal) (bool, error) {
	if sameConsole(pid) {
		return trySameConsole(pid, sig)
	}
	return tryDifferentConsole(pid, sig)
}
