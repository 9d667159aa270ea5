package scriptable

import "sync"

// CommandResult is the immutable outcome of a finished Command. It is a
// thin value type wrapping a shared state pointer, so copies (e.g. the
// value returned from Wait) all observe the same cached stdout/stderr read
// rather than re-reading (and racing on) the underlying stream.
type CommandResult struct {
	state *resultState
}

type resultState struct {
	exitCode int

	mu         sync.Mutex
	stdout     string
	stderr     string
	stdoutErr  error
	stderrErr  error
	stdoutFn   func() (string, error)
	stderrFn   func() (string, error)
	stdoutDone bool
	stderrDone bool
}

// newCommandResult builds a result whose stdout/stderr text is materialized
// lazily (and cached) via the given functions, e.g. reading from the
// captured in-memory pipe. Either function may be nil when that stream was
// claimed by a redirection/pipe decorator, in which case the accessor
// returns ErrStreamClaimed.
func newCommandResult(exitCode int, stdoutFn, stderrFn func() (string, error)) CommandResult {
	return CommandResult{state: &resultState{exitCode: exitCode, stdoutFn: stdoutFn, stderrFn: stderrFn}}
}

// ExitCode is the process's raw exit code as reported by the OS.
func (r CommandResult) ExitCode() int { return r.state.exitCode }

// Success reports whether ExitCode() == 0.
func (r CommandResult) Success() bool { return r.state.exitCode == 0 }

// StandardOutput returns the command's captured standard output, reading it
// once and caching the result. Returns ErrStreamClaimed if stdout was
// claimed by a redirection or pipe decorator.
func (r CommandResult) StandardOutput() (string, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stdoutDone {
		return s.stdout, s.stdoutErr
	}
	s.stdoutDone = true
	if s.stdoutFn == nil {
		s.stdoutErr = ErrStreamClaimed
		return "", s.stdoutErr
	}
	s.stdout, s.stdoutErr = s.stdoutFn()
	return s.stdout, s.stdoutErr
}

// StandardError mirrors StandardOutput for stderr.
func (r CommandResult) StandardError() (string, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stderrDone {
		return s.stderr, s.stderrErr
	}
	s.stderrDone = true
	if s.stderrFn == nil {
		s.stderrErr = ErrStreamClaimed
		return "", s.stderrErr
	}
	s.stderr, s.stderrErr = s.stderrFn()
	return s.stderr, s.stderrErr
}

// withClaimedStream returns a result identical to r except that the given
// stream is marked claimed by a redirection/pipe decorator: its accessor
// will return ErrStreamClaimed instead of re-reading the now-drained pipe.
// Builds a fresh resultState rather than copying r.state by value, since the
// latter carries a sync.Mutex; the unclaimed streams read through r's own
// accessors, so both results share r's cached text.
func (r CommandResult) withClaimedStream(stream streamKind) CommandResult {
	ns := &resultState{
		exitCode: r.state.exitCode,
		stdoutFn: r.StandardOutput,
		stderrFn: r.StandardError,
	}
	switch stream {
	case streamStdout:
		ns.stdoutFn = nil
	case streamStderr:
		ns.stderrFn = nil
	}
	return CommandResult{state: ns}
}
