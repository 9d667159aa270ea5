// Package streamio adapts a child process's OS stdio streams to the
// in-memory pipe package: an eager drain for stdout/stderr (so the child
// never blocks on a full OS pipe buffer) and a stdin writer that tolerates
// writes after the child has exited.
package streamio

import (
	"io"
	"sync/atomic"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/jessenich/scriptable/internal/pipe"
)

// OutputReader wraps an OS child pipe (stdout or stderr) and continuously
// drains it into an in-memory Pipe so the child is never blocked waiting for
// a consumer. Consumers read from Reader() instead of the OS pipe directly.
type OutputReader struct {
	src io.ReadCloser
	w   *pipe.Writer
	r   *pipe.Reader

	discard atomic.Bool
	done    chan struct{}
	errv    atomic.Value // error

	enc encoding.Encoding
}

// NewOutputReader starts a background goroutine draining src into a Pipe
// sized by chunkSize (also the recommended read-chunk size).
func NewOutputReader(src io.ReadCloser, chunkSize int) *OutputReader {
	w, r := pipe.NewSize(chunkSize)
	o := &OutputReader{src: src, w: w, r: r, done: make(chan struct{})}
	go o.drain(chunkSize)
	return o
}

// SetEncoding wraps subsequent reads with a decoder for the given text
// encoding. Must be called before the first call to Reader().
func (o *OutputReader) SetEncoding(enc encoding.Encoding) { o.enc = enc }

func (o *OutputReader) drain(chunkSize int) {
	defer close(o.done)
	defer o.src.Close()
	defer o.w.Close()

	buf := make([]byte, chunkSize)
	for {
		if o.discard.Load() {
			io.Copy(io.Discard, o.src)
			return
		}
		n, err := o.src.Read(buf)
		if n > 0 {
			if _, werr := o.w.Write(buf[:n]); werr != nil {
				o.errv.Store(werr)
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				o.errv.Store(err)
			}
			return
		}
	}
}

// Discard short-circuits the drain loop (remaining OS bytes are read and
// thrown away so the child never blocks) and makes subsequent reads from
// Reader() return io.EOF immediately.
func (o *OutputReader) Discard() {
	o.discard.Store(true)
}

// StopBuffering enables backpressure on the underlying Pipe: once buffered
// output reaches the fixed-length clamp, the drain loop (and therefore the
// child's OS pipe) blocks until a consumer reads.
func (o *OutputReader) StopBuffering() { o.r.SetFixedLength() }

// Err returns any I/O error observed by the drain loop (nil on a clean EOF).
func (o *OutputReader) Err() error {
	if v := o.errv.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// Done returns a channel closed once the drain loop has exited, i.e. once
// the OS source has hit EOF/error and the backing pipe's writer has closed.
func (o *OutputReader) Done() <-chan struct{} { return o.done }

// Reader returns the consumer-facing stream: the Pipe's reader half,
// optionally wrapped with a text decoder, and short-circuited by Discard.
func (o *OutputReader) Reader() io.ReadCloser {
	var r io.ReadCloser = &discardAwareReader{o: o}
	if o.enc != nil {
		r = struct {
			io.Reader
			io.Closer
		}{transform.NewReader(r, o.enc.NewDecoder()), r}
	}
	return r
}

type discardAwareReader struct{ o *OutputReader }

func (d *discardAwareReader) Read(p []byte) (int, error) {
	if d.o.discard.Load() {
		return 0, io.EOF
	}
	return d.o.r.Read(p)
}

func (d *discardAwareReader) Close() error { return d.o.r.Close() }
