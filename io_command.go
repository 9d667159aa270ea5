package scriptable

import (
	"context"
	"io"
	"os"
)

type streamKind int

const (
	streamStdin streamKind = iota
	streamStdout
	streamStderr
)

// ioCommand decorates a Command, redirecting exactly one of its standard
// streams to or from an external source/sink via a background copy
// goroutine. Chain RedirectStandardInput/Output/Error calls to redirect more
// than one stream on the same command.
type ioCommand struct {
	inner   Command
	err     error // set when the redirection itself could not be set up
	stream  streamKind
	task    <-chan struct{}
	done    chan struct{}
	copyErr error
}

func redirectInput(inner Command, src any) Command {
	r, closer, err := buildStdinSource(src)
	if err != nil {
		return &ioCommand{inner: inner, err: err, task: inner.Task()}
	}
	w, err := inner.StandardInput()
	if err != nil {
		return &ioCommand{inner: inner, err: err, task: inner.Task()}
	}

	ic := &ioCommand{inner: inner, stream: streamStdin, done: make(chan struct{})}
	go func() {
		defer close(ic.done)
		_, copyErr := io.Copy(w, r)
		if closer != nil {
			closer.Close()
		}
		w.Close()
		ic.copyErr = copyErr
	}()
	ic.task = mergeDone(inner.Task(), ic.done)
	return ic
}

func redirectOutput(inner Command, dst any, stderr bool) Command {
	w, closer, err := buildStdoutSink(dst)
	if err != nil {
		return &ioCommand{inner: inner, err: err, task: inner.Task()}
	}

	var r io.ReadCloser
	if stderr {
		r, err = inner.StandardError()
	} else {
		r, err = inner.StandardOutput()
	}
	if err != nil {
		return &ioCommand{inner: inner, err: err, task: inner.Task()}
	}

	stream := streamStdout
	if stderr {
		stream = streamStderr
	}

	ic := &ioCommand{inner: inner, stream: stream, done: make(chan struct{})}
	go func() {
		defer close(ic.done)
		_, copyErr := io.Copy(w, r)
		r.Close()
		if closer != nil {
			if cerr := closer.Close(); cerr != nil && copyErr == nil {
				copyErr = cerr
			}
		}
		ic.copyErr = copyErr
	}()
	ic.task = mergeDone(inner.Task(), ic.done)
	return ic
}

// mergeDone returns a channel closed once both a and b are closed.
func mergeDone(a, b <-chan struct{}) <-chan struct{} {
	merged := make(chan struct{})
	go func() {
		<-a
		<-b
		close(merged)
	}()
	return merged
}

func (c *ioCommand) Process() (*os.Process, error) { return c.inner.Process() }
func (c *ioCommand) Processes() []*os.Process      { return c.inner.Processes() }
func (c *ioCommand) ProcessID() (int, error)       { return c.inner.ProcessID() }
func (c *ioCommand) ProcessIDs() []int             { return c.inner.ProcessIDs() }

func (c *ioCommand) StandardInput() (io.WriteCloser, error) {
	if c.stream == streamStdin {
		return nil, ErrStreamAlreadyPiped
	}
	return c.inner.StandardInput()
}

func (c *ioCommand) StandardOutput() (io.ReadCloser, error) {
	if c.stream == streamStdout {
		return nil, ErrStreamAlreadyPiped
	}
	return c.inner.StandardOutput()
}

func (c *ioCommand) StandardError() (io.ReadCloser, error) {
	if c.stream == streamStderr {
		return nil, ErrStreamAlreadyPiped
	}
	return c.inner.StandardError()
}

func (c *ioCommand) Task() <-chan struct{} { return c.task }

func (c *ioCommand) Wait(ctx context.Context) (CommandResult, error) {
	if c.err != nil {
		res, _ := c.inner.Wait(ctx)
		return res, c.err
	}
	res, err := c.inner.Wait(ctx)
	select {
	case <-c.done:
	case <-ctx.Done():
		return res, ctx.Err()
	}
	res = res.withClaimedStream(c.stream)
	if err == nil && c.copyErr != nil {
		err = &Error{Op: "redirect", Err: c.copyErr}
	}
	return res, err
}

func (c *ioCommand) Kill() error { return c.inner.Kill() }

func (c *ioCommand) TrySignal(ctx context.Context, sig Signal) (bool, error) {
	return c.inner.TrySignal(ctx, sig)
}

func (c *ioCommand) PipeTo(next Command) Command { return newPipedCommand(c, next) }

func (c *ioCommand) RedirectStandardInput(src any) Command  { return redirectInput(c, src) }
func (c *ioCommand) RedirectStandardOutput(dst any) Command { return redirectOutput(c, dst, false) }
func (c *ioCommand) RedirectStandardError(dst any) Command  { return redirectOutput(c, dst, true) }

func (c *ioCommand) OutputAndErrorLines(ctx context.Context) (<-chan Line, error) {
	return c.inner.OutputAndErrorLines(ctx)
}
