package scriptable

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/ubuntu/decorate"
	"golang.org/x/sync/errgroup"

	"github.com/jessenich/scriptable/internal/consolesignal"
	"github.com/jessenich/scriptable/internal/obslog"
	"github.com/jessenich/scriptable/internal/streamio"
)

const defaultChunkSize = 4096

// processCommand wraps a freshly started *exec.Cmd. Stdout/stderr are
// continuously drained into in-memory pipes (internal/streamio) so the
// child is never blocked on a full OS pipe buffer; stdin is wrapped to
// silently swallow post-exit write errors.
type processCommand struct {
	cmd *exec.Cmd
	opts *options

	stdin  *streamio.InputWriter
	stdout *streamio.OutputReader
	stderr *streamio.OutputReader

	startErr error
	pid      int

	task    chan struct{}
	waitErr error
	result  CommandResult

	mu         sync.Mutex
	linesTaken bool
	disposed   bool
}

func newProcessCommand(ctx context.Context, o *options, executable string, args []string) Command {
	cmd := exec.Command(executable, args...)
	cmd.Dir = o.workingDirectory
	if len(o.env) > 0 {
		env := os.Environ()
		for k, v := range o.env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}
	applyPlatformProcAttr(cmd)
	for _, fn := range o.startInfoFns {
		fn(cmd)
	}

	pc := &processCommand{cmd: cmd, opts: o, task: make(chan struct{})}

	stdinPipe, stdoutPipe, stderrPipe, err := startPipes(cmd)
	if err != nil {
		pc.startErr = err
		close(pc.task)
		return finishWithCommand(pc, o)
	}

	pc.pid = cmd.Process.Pid
	obslog.Default().Debugf("started %s (pid %d)", executable, pc.pid)

	pc.stdin = streamio.NewInputWriter(streamRawWriteCloser(stdinPipe, o))
	pc.stdout = streamio.NewOutputReader(stdoutPipe, defaultChunkSize)
	pc.stderr = streamio.NewOutputReader(stderrPipe, defaultChunkSize)
	if o.encoding != nil {
		pc.stdout.SetEncoding(o.encoding)
		pc.stderr.SetEncoding(o.encoding)
	}

	go pc.run(ctx)

	return finishWithCommand(pc, o)
}

// startPipes wires up stdio pipes and starts cmd, decorating any failure
// with which command it was.
func startPipes(cmd *exec.Cmd) (stdin io.WriteCloser, stdout, stderr io.ReadCloser, err error) {
	defer decorate.OnError(&err, "could not start command %q", cmd.Path)

	stdin, err = cmd.StdinPipe()
	if err != nil {
		return nil, nil, nil, err
	}
	stdout, err = cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, err
	}
	stderr, err = cmd.StderrPipe()
	if err != nil {
		return nil, nil, nil, err
	}
	if err = cmd.Start(); err != nil {
		return nil, nil, nil, err
	}
	return stdin, stdout, stderr, nil
}

func finishWithCommand(pc *processCommand, o *options) Command {
	var cmd Command = pc
	for _, fn := range o.withCommandFns {
		cmd = fn(cmd)
	}
	return cmd
}

// streamRawWriteCloser wraps stdin with an encoder for o.encoding, or returns
// it unchanged when no encoding is set.
func streamRawWriteCloser(w io.WriteCloser, o *options) io.WriteCloser {
	return streamio.WithEncoding(w, o.encoding)
}

func (p *processCommand) run(ctx context.Context) {
	defer close(p.task)

	waitCtx := ctx
	var cancel context.CancelFunc
	if p.opts.timeout > 0 {
		waitCtx, cancel = context.WithTimeout(waitCtx, p.opts.timeout)
		defer cancel()
	}
	if p.opts.cancelCtx != nil {
		merged, mcancel := mergeContexts(waitCtx, p.opts.cancelCtx)
		waitCtx = merged
		defer mcancel()
	}

	procDone := make(chan error, 1)
	go func() { procDone <- p.cmd.Wait() }()

	select {
	case err := <-procDone:
		p.waitErr = p.classifyExit(err)
	case <-waitCtx.Done():
		p.Kill()
		<-procDone
		p.waitErr = classifyContext(waitCtx.Err())
	}

	if p.opts.disposeOnExit {
		// The exit code is already captured in ProcessState above; only the
		// raw OS handle is released, per the completion order (capture exit
		// before disposing the handle, then drain io before returning).
		p.mu.Lock()
		p.disposed = true
		p.mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error { <-p.stdout.Done(); return p.stdout.Err() })
	g.Go(func() error { <-p.stderr.Done(); return p.stderr.Err() })
	ioErr := g.Wait()

	if p.waitErr == nil && ioErr != nil {
		p.waitErr = ioErr
	}

	exitCode := -1
	if p.cmd.ProcessState != nil {
		exitCode = p.cmd.ProcessState.ExitCode()
	}
	p.result = newCommandResult(exitCode,
		func() (string, error) { return readAllPipe(p.stdout) },
		func() (string, error) { return readAllPipe(p.stderr) },
	)

	if p.waitErr == nil && p.opts.throwOnError && exitCode != 0 {
		p.waitErr = &ExitCodeError{Code: exitCode}
	}
}

func readAllPipe(r *streamio.OutputReader) (string, error) {
	b, err := io.ReadAll(r.Reader())
	return string(b), err
}

func (p *processCommand) classifyExit(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		// A nonzero exit is not itself an error for Wait's purposes; the
		// caller inspects CommandResult.ExitCode/Success, or opts in via
		// ThrowOnError.
		return nil
	}
	return &Error{Op: "wait", Err: err}
}

func classifyContext(err error) error {
	switch err {
	case context.DeadlineExceeded:
		return ErrTimeout
	case context.Canceled:
		return ErrCancelled
	default:
		return err
	}
}

// mergeContexts returns a context cancelled when either input is, with a
// cancel func the caller must invoke to release the watcher goroutine.
func mergeContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := make(chan struct{})
	go func() {
		select {
		case <-b.Done():
			cancel()
		case <-stop:
		}
	}()
	return ctx, func() {
		close(stop)
		cancel()
	}
}

func (p *processCommand) Process() (*os.Process, error) {
	if p.startErr != nil {
		return nil, p.startErr
	}
	p.mu.Lock()
	disposed := p.disposed
	p.mu.Unlock()
	if disposed {
		return nil, ErrProcessNotAccessible
	}
	return p.cmd.Process, nil
}

func (p *processCommand) Processes() []*os.Process {
	if p.cmd.Process == nil {
		return nil
	}
	p.mu.Lock()
	disposed := p.disposed
	p.mu.Unlock()
	if disposed {
		return nil
	}
	return []*os.Process{p.cmd.Process}
}

// ProcessID is captured at start time and stays available even after
// dispose-on-exit releases the raw process handle.
func (p *processCommand) ProcessID() (int, error) {
	if p.startErr != nil {
		return 0, p.startErr
	}
	return p.pid, nil
}

func (p *processCommand) ProcessIDs() []int {
	if p.startErr != nil {
		return nil
	}
	return []int{p.pid}
}

func (p *processCommand) StandardInput() (io.WriteCloser, error) {
	if p.startErr != nil {
		return nil, p.startErr
	}
	return p.stdin, nil
}

func (p *processCommand) StandardOutput() (io.ReadCloser, error) {
	if p.startErr != nil {
		return nil, p.startErr
	}
	p.mu.Lock()
	taken := p.linesTaken
	p.mu.Unlock()
	if taken {
		return nil, ErrAlreadyConsumed
	}
	return p.stdout.Reader(), nil
}

func (p *processCommand) StandardError() (io.ReadCloser, error) {
	if p.startErr != nil {
		return nil, p.startErr
	}
	return p.stderr.Reader(), nil
}

func (p *processCommand) Task() <-chan struct{} { return p.task }

func (p *processCommand) Wait(ctx context.Context) (result CommandResult, err error) {
	defer decorate.OnError(&err, "could not wait on command %q", p.cmd.Path)

	if p.startErr != nil {
		return CommandResult{}, p.startErr
	}
	select {
	case <-p.task:
		return p.result, p.waitErr
	case <-ctx.Done():
		return CommandResult{}, ctx.Err()
	}
}

func (p *processCommand) Kill() (err error) {
	defer decorate.OnError(&err, "could not kill command %q", p.cmd.Path)

	if p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && processAlive(p.cmd.Process.Pid) {
		return err
	}
	return nil
}

func (p *processCommand) TrySignal(ctx context.Context, sig Signal) (ok bool, err error) {
	defer decorate.OnError(&err, "could not send signal %s to command %q", sig, p.cmd.Path)

	if p.cmd.Process == nil {
		return false, ErrProcessNotAccessible
	}
	return consolesignal.TrySignal(p.cmd.Process.Pid, sig)
}

func (p *processCommand) PipeTo(next Command) Command {
	return newPipedCommand(p, next)
}

func (p *processCommand) RedirectStandardInput(src any) Command {
	return redirectInput(p, src)
}

func (p *processCommand) RedirectStandardOutput(dst any) Command {
	return redirectOutput(p, dst, false)
}

func (p *processCommand) RedirectStandardError(dst any) Command {
	return redirectOutput(p, dst, true)
}

func (p *processCommand) OutputAndErrorLines(ctx context.Context) (<-chan Line, error) {
	p.mu.Lock()
	if p.linesTaken {
		p.mu.Unlock()
		return nil, ErrAlreadyConsumed
	}
	p.linesTaken = true
	p.mu.Unlock()

	return mergedLines(p.stdout.Reader(), p.stderr.Reader()), nil
}
