package scriptable

import (
	"context"
	"os/exec"
	"time"

	"golang.org/x/text/encoding"
)

// options collects every Shell/Run-time mutator. newOptions's defaults are
// the baseline configuration: inherited environment, no timeout, no
// throw-on-error, the default argument syntax, default text encoding, and
// dispose-on-exit enabled.
type options struct {
	workingDirectory string
	env              map[string]string
	startInfoFns     []func(*exec.Cmd)
	withCommandFns   []func(Command) Command

	throwOnError  bool
	disposeOnExit bool
	timeout       time.Duration
	encoding      encoding.Encoding
	cancelCtx     context.Context
	syntax        ArgumentSyntax
}

func newOptions() *options {
	return &options{
		env:           map[string]string{},
		syntax:        DefaultSyntax,
		encoding:      defaultEncoding(),
		disposeOnExit: true,
	}
}

func (o *options) clone() *options {
	c := *o
	c.env = make(map[string]string, len(o.env))
	for k, v := range o.env {
		c.env[k] = v
	}
	c.startInfoFns = append([]func(*exec.Cmd){}, o.startInfoFns...)
	c.withCommandFns = append([]func(Command) Command{}, o.withCommandFns...)
	return &c
}

// Option configures a Shell or a single RunWith/TryAttach call.
type Option func(*options)

// WorkingDirectory sets the child process's working directory.
func WorkingDirectory(path string) Option {
	return func(o *options) { o.workingDirectory = path }
}

// EnvironmentVariable sets a single environment variable, added to (not
// replacing) the inherited environment.
func EnvironmentVariable(key, value string) Option {
	return func(o *options) { o.env[key] = value }
}

// EnvironmentVariables merges a whole map of environment variables.
func EnvironmentVariables(vars map[string]string) Option {
	return func(o *options) {
		for k, v := range vars {
			o.env[k] = v
		}
	}
}

// StartInfo registers a callback given direct access to the underlying
// *exec.Cmd before Start, for platform-specific tweaks (SysProcAttr, extra
// files, etc.) this option set doesn't otherwise expose.
func StartInfo(fn func(*exec.Cmd)) Option {
	return func(o *options) { o.startInfoFns = append(o.startInfoFns, fn) }
}

// WithCommand registers a post-creation mutator applied to the Command
// after it's built (e.g. to wrap it in a caller-defined decorator).
func WithCommand(fn func(Command) Command) Option {
	return func(o *options) { o.withCommandFns = append(o.withCommandFns, fn) }
}

// ThrowOnError makes Wait return *ExitCodeError when the process exits
// nonzero, instead of a nil error alongside a failed CommandResult.
func ThrowOnError(throw bool) Option {
	return func(o *options) { o.throwOnError = throw }
}

// DisposeOnExit controls whether the raw OS process handle is released as
// part of the command's completion future (default true). Once disposed,
// Process fails with ErrProcessNotAccessible and Processes returns nil;
// ProcessID/ProcessIDs
// remain available since the PID is captured eagerly at start time.
func DisposeOnExit(dispose bool) Option {
	return func(o *options) { o.disposeOnExit = dispose }
}

// Timeout bounds how long a command started by Run/RunWith may run before it
// is killed and Wait reports ErrTimeout. Commands returned by TryAttach
// ignore it.
func Timeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Encoding overrides the text encoding used for stdin/stdout/stderr.
func Encoding(enc encoding.Encoding) Option {
	return func(o *options) { o.encoding = enc }
}

// WithCancel supplies an additional, independent cancellation source beyond
// the ctx passed to Run/RunWith; the started command is killed when either
// fires. Commands returned by TryAttach do not watch it.
func WithCancel(ctx context.Context) Option {
	return func(o *options) { o.cancelCtx = ctx }
}

// Syntax records an ArgumentSyntax in the options. No command reads it back:
// arguments always reach the child as a slice, never as a joined string.
func Syntax(s ArgumentSyntax) Option {
	return func(o *options) { o.syntax = s }
}
