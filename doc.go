// Package scriptable launches and orchestrates child processes with rich
// control over their standard streams.
//
// It provides a fluent Shell builder that carries default options, a Command
// handle representing a running (or attached) process, composable stream
// piping to and from files, byte streams, text readers/writers, in-memory
// collections and other commands, deterministic cancellation and timeouts,
// and cross-platform delivery of console control signals.
//
// # Quick start
//
//	sh := scriptable.New(scriptable.ThrowOnError(true))
//	cmd := sh.Run(ctx, "echo", "hello")
//	res, err := cmd.Wait(ctx)
//
// # Piping
//
// Commands compose with PipeTo the way shell pipelines do:
//
//	grep := sh.Run(ctx, "grep", "needle")
//	sort := sh.Run(ctx, "sort")
//	piped := grep.PipeTo(sort)
//	res, err := piped.Wait(ctx)
//
// # Redirection
//
// RedirectStandardInput/Output/Error accept files, byte streams, line
// slices, or raw readers/writers without reaching for a shell to do it:
//
//	cmd := sh.Run(ctx, "sort").RedirectStandardInput([]string{"b", "a"})
//
// # Signals
//
// TrySignal delivers a console control signal (Ctrl+C equivalent) to a
// running or attached command cross-platform; Kill always terminates.
//
// # Environment variables
//
//	SCRIPTABLE_DEBUG=1      raise ambient logging to debug level
//	SCRIPTABLE_LOG_JSON=1   switch ambient logging to JSON encoding
//	SCRIPTABLE_LOG_DEST     "stderr" (default), "stdout", or "file:<path>"
package scriptable
