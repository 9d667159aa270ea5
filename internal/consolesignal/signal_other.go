//go:build !unix && !windows

package consolesignal

import "errors"

var errUnsupportedPlatform = errors.New("consolesignal: unsupported platform")

func sameConsole(pid int) bool { return false }

func trySameConsole(pid int, sig Signal) (bool, error) {
	return false, errUnsupportedPlatform
}

func tryDifferentConsole(pid int, sig Signal) (bool, error) {
	return false, errUnsupportedPlatform
}
