package scriptable

import (
	"context"
	"io"
	"os"

	"go.uber.org/multierr"
)

// pipedCommand connects a's stdout to b's stdin. a.PipeTo(b).PipeTo(c) and
// a.PipeTo(b.PipeTo(c)) are observably identical: Processes/ProcessIDs flatten
// nested piped commands rather than nesting opaquely, by concatenating each
// stage's own Processes()/ProcessIDs() in left-to-right order.
type pipedCommand struct {
	a, b Command

	done    chan struct{}
	copyErr error
}

func newPipedCommand(a, b Command) Command {
	pc := &pipedCommand{a: a, b: b, done: make(chan struct{})}

	go func() {
		defer close(pc.done)

		bIn, err := b.StandardInput()
		if err != nil {
			pc.copyErr = &Error{Op: "pipe to", Err: err}
			return
		}
		aOut, err := a.StandardOutput()
		if err != nil {
			pc.copyErr = &Error{Op: "pipe to", Err: err}
			bIn.Close()
			return
		}

		_, copyErr := io.Copy(bIn, aOut)
		aOut.Close()
		bIn.Close()
		pc.copyErr = copyErr
	}()

	return pc
}

func (p *pipedCommand) Process() (*os.Process, error) { return p.b.Process() }

func (p *pipedCommand) Processes() []*os.Process {
	return append(p.a.Processes(), p.b.Processes()...)
}

func (p *pipedCommand) ProcessID() (int, error) { return p.b.ProcessID() }

func (p *pipedCommand) ProcessIDs() []int {
	return append(p.a.ProcessIDs(), p.b.ProcessIDs()...)
}

func (p *pipedCommand) StandardInput() (io.WriteCloser, error) { return p.a.StandardInput() }
func (p *pipedCommand) StandardOutput() (io.ReadCloser, error) { return p.b.StandardOutput() }
func (p *pipedCommand) StandardError() (io.ReadCloser, error)  { return p.b.StandardError() }

func (p *pipedCommand) Task() <-chan struct{} {
	merged := make(chan struct{})
	go func() {
		<-p.a.Task()
		<-p.done
		<-p.b.Task()
		close(merged)
	}()
	return merged
}

func (p *pipedCommand) Wait(ctx context.Context) (CommandResult, error) {
	aRes, aErr := p.a.Wait(ctx)
	select {
	case <-p.done:
	case <-ctx.Done():
		return aRes, ctx.Err()
	}
	bRes, bErr := p.b.Wait(ctx)

	err := aErr
	if err == nil {
		err = p.copyErr
	}
	if err == nil {
		err = bErr
	}
	return bRes, err
}

// Kill kills both stages, aggregating failures so one side's failure never
// masks the other's.
func (p *pipedCommand) Kill() error {
	return multierr.Append(p.a.Kill(), p.b.Kill())
}

func (p *pipedCommand) TrySignal(ctx context.Context, sig Signal) (bool, error) {
	aOK, aErr := p.a.TrySignal(ctx, sig)
	bOK, bErr := p.b.TrySignal(ctx, sig)
	return aOK && bOK, multierr.Append(aErr, bErr)
}

func (p *pipedCommand) PipeTo(next Command) Command { return newPipedCommand(p, next) }

func (p *pipedCommand) RedirectStandardInput(src any) Command  { return redirectInput(p, src) }
func (p *pipedCommand) RedirectStandardOutput(dst any) Command { return redirectOutput(p, dst, false) }
func (p *pipedCommand) RedirectStandardError(dst any) Command  { return redirectOutput(p, dst, true) }

func (p *pipedCommand) OutputAndErrorLines(ctx context.Context) (<-chan Line, error) {
	return p.b.OutputAndErrorLines(ctx)
}
