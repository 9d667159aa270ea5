// Command consolesignalhelper delivers a single console control signal to a
// PID and exits. It exists for platforms/configurations where the calling
// process cannot target a foreign console's process directly; see
// internal/consolesignal.
//
// Usage: consolesignalhelper <pid> <CTRL_C|CTRL_BREAK>
package main

import (
	"fmt"
	"os"
	"strconv"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: consolesignalhelper <pid> <CTRL_C|CTRL_BREAK>")
		os.Exit(2)
	}
	pid, err := strconv.Atoi(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid pid %q: %v\n", os.Args[1], err)
		os.Exit(2)
	}
	if err := deliver(pid, os.Args[2]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
