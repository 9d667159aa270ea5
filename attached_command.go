package scriptable

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ubuntu/decorate"

	"github.com/jessenich/scriptable/internal/consolesignal"
	"github.com/jessenich/scriptable/internal/obslog"
)

// attachedCommand represents a process this library did not start. Stream
// accessors are unavailable (the child's stdio was never captured); every
// other accessor mirrors a processCommand.
type attachedCommand struct {
	pid  int
	proc *os.Process

	task    chan struct{}
	result  CommandResult
	waitErr error
}

// ShellAttach looks up a running process by PID and, if it's alive, returns
// a Command monitoring its exit. A PID that doesn't exist or has already
// exited is a soft failure: (nil, false, nil), never an error. opts may not
// include Encoding or StartInfo mutators — there is no stdio to encode and
// no process left to start — and fails with ErrAttachMisconfigured if they do.
func (s *Shell) ShellAttach(pid int, opts ...Option) (Command, bool, error) {
	// Applied to a bare options value (not s.opts) so this only catches
	// encoding/start-info mutators passed to this call, not ones the Shell
	// itself already carries as defaults.
	probe := &options{env: map[string]string{}}
	for _, opt := range opts {
		opt(probe)
	}
	if probe.encoding != nil || len(probe.startInfoFns) > 0 {
		return nil, false, ErrAttachMisconfigured
	}

	o := s.opts.clone()
	for _, opt := range opts {
		opt(o)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return nil, false, nil
	}
	if !processAlive(pid) {
		return nil, false, nil
	}

	ac := &attachedCommand{
		pid:  pid,
		proc: proc,
		task: make(chan struct{}),
	}

	go ac.monitor()

	var cmd Command = ac
	for _, fn := range o.withCommandFns {
		cmd = fn(cmd)
	}
	return cmd, true, nil
}

func (a *attachedCommand) monitor() {
	defer close(a.task)
	if err := waitForExit(a.pid); err != nil {
		obslog.Default().Debugf("attached command %d: wait error: %v", a.pid, err)
		a.waitErr = &Error{Op: "wait", Err: err}
	}
	a.result = newCommandResult(-1, nil, nil)
}

func (a *attachedCommand) Process() (*os.Process, error) { return a.proc, nil }
func (a *attachedCommand) Processes() []*os.Process       { return []*os.Process{a.proc} }

func (a *attachedCommand) ProcessID() (int, error) { return a.pid, nil }
func (a *attachedCommand) ProcessIDs() []int        { return []int{a.pid} }

func (a *attachedCommand) StandardInput() (io.WriteCloser, error) {
	return nil, ErrStreamUnavailableOnAttached
}
func (a *attachedCommand) StandardOutput() (io.ReadCloser, error) {
	return nil, ErrStreamUnavailableOnAttached
}
func (a *attachedCommand) StandardError() (io.ReadCloser, error) {
	return nil, ErrStreamUnavailableOnAttached
}

func (a *attachedCommand) Task() <-chan struct{} { return a.task }

func (a *attachedCommand) Wait(ctx context.Context) (result CommandResult, err error) {
	defer decorate.OnError(&err, "could not wait on attached command (pid %d)", a.pid)

	select {
	case <-a.task:
		return a.result, a.waitErr
	case <-ctx.Done():
		return CommandResult{}, ctx.Err()
	}
}

func (a *attachedCommand) Kill() (err error) {
	defer decorate.OnError(&err, "could not kill attached command (pid %d)", a.pid)

	if !processAlive(a.pid) {
		return nil
	}
	if err := a.proc.Kill(); err != nil && processAlive(a.pid) {
		return err
	}
	return nil
}

func (a *attachedCommand) TrySignal(ctx context.Context, sig Signal) (ok bool, err error) {
	defer decorate.OnError(&err, "could not send signal %s to attached command (pid %d)", sig, a.pid)
	return consolesignal.TrySignal(a.pid, sig)
}

func (a *attachedCommand) PipeTo(next Command) Command {
	return newPipedCommand(a, next)
}

func (a *attachedCommand) RedirectStandardInput(src any) Command {
	return &ioCommand{inner: a, err: fmt.Errorf("redirect stdin on attached command %d: %w", a.pid, ErrStreamUnavailableOnAttached), task: a.Task()}
}
func (a *attachedCommand) RedirectStandardOutput(dst any) Command {
	return &ioCommand{inner: a, err: fmt.Errorf("redirect stdout on attached command %d: %w", a.pid, ErrStreamUnavailableOnAttached), task: a.Task()}
}
func (a *attachedCommand) RedirectStandardError(dst any) Command {
	return &ioCommand{inner: a, err: fmt.Errorf("redirect stderr on attached command %d: %w", a.pid, ErrStreamUnavailableOnAttached), task: a.Task()}
}

func (a *attachedCommand) OutputAndErrorLines(ctx context.Context) (<-chan Line, error) {
	return nil, ErrStreamUnavailableOnAttached
}
