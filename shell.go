package scriptable

import "context"

// Shell is a fluent builder that carries default options applied to every
// command it creates. The zero value is not usable; construct with New.
type Shell struct {
	opts *options
}

// New builds a Shell configured by opts; every Run/RunWith/TryAttach call
// inherits these defaults, and RunWith/TryAttach may further override them
// with call-specific options.
func New(opts ...Option) *Shell {
	o := newOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Shell{opts: o}
}

// Run starts executable with args and returns a Command representing it.
// Run never blocks on the process; call Wait or Task to observe completion.
// ctx governs cancellation/timeout of the running command (merged with any
// WithCancel option and Options.Timeout); it does not delay the Start call
// itself — a command is never killed before it starts.
func (s *Shell) Run(ctx context.Context, executable string, args ...string) Command {
	o := s.opts.clone()
	return newProcessCommand(ctx, o, executable, args)
}

// RunWith is Run with per-call options layered on top of the Shell's
// defaults.
func (s *Shell) RunWith(ctx context.Context, executable string, args []string, opts ...Option) Command {
	o := s.opts.clone()
	for _, opt := range opts {
		opt(o)
	}
	return newProcessCommand(ctx, o, executable, args)
}

// TryAttach looks up a running process by PID and, if still alive, returns a
// Command monitoring its exit. A PID that doesn't exist or has already
// exited is reported as (nil, false, nil) — a soft failure, not an error.
// Stream accessors on the returned Command report ErrStreamUnavailableOnAttached.
// opts may not include Encoding or StartInfo mutators; passing either fails
// with ErrAttachMisconfigured.
func (s *Shell) TryAttach(pid int, opts ...Option) (Command, bool, error) {
	return s.ShellAttach(pid, opts...)
}
