package streamio

import (
	"errors"
	"io"
	"os"
	"syscall"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// InputWriter wraps a child's OS stdin pipe. Writing or flushing after the
// child has exited behaves differently across operating systems (no-op on
// some, EPIPE on others, ERROR_BROKEN_PIPE on Windows); InputWriter makes
// all three look like a silent no-op from the caller's perspective.
type InputWriter struct {
	dst io.WriteCloser
}

// NewInputWriter wraps dst, the OS stdin pipe of a started child process.
func NewInputWriter(dst io.WriteCloser) *InputWriter {
	return &InputWriter{dst: dst}
}

// WithEncoding wraps dst with a text encoder so callers may write using a
// stdin encoding other than the process default.
func WithEncoding(dst io.WriteCloser, enc encoding.Encoding) io.WriteCloser {
	if enc == nil {
		return dst
	}
	return &encodedWriteCloser{w: transform.NewWriter(dst, enc.NewEncoder()), c: dst}
}

type encodedWriteCloser struct {
	w *transform.Writer
	c io.Closer
}

func (e *encodedWriteCloser) Write(p []byte) (int, error) { return e.w.Write(p) }

func (e *encodedWriteCloser) Close() error {
	if err := e.w.Close(); err != nil {
		return err
	}
	return e.c.Close()
}

func (w *InputWriter) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	if err != nil && isPostExitIOError(err) {
		return len(p), nil
	}
	return n, err
}

// Close closes the underlying stream. Close errors after the child has
// exited are likewise swallowed.
func (w *InputWriter) Close() error {
	if err := w.dst.Close(); err != nil && !isPostExitIOError(err) {
		return err
	}
	return nil
}

// isPostExitIOError reports whether err is the kind of I/O failure that
// cross-platform "write after the reader exited" reliably produces: a
// broken pipe, a closed pipe, or a generic write/flush fault on an already
// torn-down descriptor.
func isPostExitIOError(err error) bool {
	if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) {
		return true
	}
	if errors.Is(err, syscall.EPIPE) {
		return true
	}
	var pathErr *os.PathError
	return errors.As(err, &pathErr)
}
