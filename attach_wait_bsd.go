//go:build darwin || freebsd || netbsd || openbsd

package scriptable

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// waitForExit blocks until pid exits, using the same kqueue/EVFILT_PROC
// mechanism /usr/bin/open -W uses to wait for an arbitrary foreign PID.
func waitForExit(pid int) error {
	kq, err := unix.Kqueue()
	if err != nil {
		return fmt.Errorf("kqueue: %w", err)
	}
	defer unix.Close(kq)

	changes := []unix.Kevent_t{{
		Ident:  uint64(pid),
		Filter: unix.EVFILT_PROC,
		Flags:  unix.EV_ADD | unix.EV_ENABLE,
		Fflags: unix.NOTE_EXIT,
	}}
	events := make([]unix.Kevent_t, 1)

	n, err := unix.Kevent(kq, changes, events, nil)
	if err != nil {
		// Racing with the process already having exited between our liveness
		// probe and registering interest is reported as ESRCH; treat that as
		// "already exited" rather than an error.
		if err == unix.ESRCH {
			return nil
		}
		return fmt.Errorf("kevent register: %w", err)
	}
	if n > 0 && events[0].Fflags&unix.NOTE_EXIT != 0 {
		return nil
	}

	for {
		n, err := unix.Kevent(kq, nil, events, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("kevent wait: %w", err)
		}
		for i := 0; i < n; i++ {
			if events[i].Fflags&unix.NOTE_EXIT != 0 {
				return nil
			}
		}
	}
}
