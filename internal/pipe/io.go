package pipe

import (
	"context"
	"time"
)

// Writer is the write-only half of a Pipe.
type Writer struct{ p *Pipe }

// Write blocks indefinitely (no timeout, no cancellation) until len(b) bytes
// are accepted or the reader closes. Writing to an already-closed writer
// fails with ErrClosedWriter; a Close issued while a Write is blocked takes
// effect only after that Write completes.
func (w *Writer) Write(b []byte) (int, error) {
	return w.p.write(context.Background(), b)
}

// WriteContext is Write honoring ctx for the first blocking step only; once
// any bytes have been accepted the remainder of a backpressured write always
// runs to completion (no partial writes).
func (w *Writer) WriteContext(ctx context.Context, b []byte) (int, error) {
	return w.p.write(ctx, b)
}

// WriteTimeout is WriteContext with a convenience timeout. timeout<=0 means
// no deadline.
func (w *Writer) WriteTimeout(ctx context.Context, timeout time.Duration, b []byte) (int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return w.p.write(ctx, b)
}

// SetFixedLength enables backpressure: once buffered bytes reach the
// fixed-length clamp, writes block until the reader catches up.
func (w *Writer) SetFixedLength() { w.p.setFixedLength() }

// Close half-closes the writer side. Idempotent.
func (w *Writer) Close() error { return w.p.closeWriter() }

// Reader is the read-only half of a Pipe.
type Reader struct{ p *Pipe }

// Read blocks indefinitely until at least one byte is available or the writer
// closes (io.EOF). Reading from an already-closed reader fails with
// ErrClosedReader; a Close issued while a Read is blocked takes effect only
// after that Read completes.
func (r *Reader) Read(b []byte) (int, error) {
	return r.p.read(context.Background(), b)
}

// ReadContext is Read honoring ctx.
func (r *Reader) ReadContext(ctx context.Context, b []byte) (int, error) {
	return r.p.read(ctx, b)
}

// ReadTimeout is ReadContext with a convenience timeout. timeout<=0 means no
// deadline.
func (r *Reader) ReadTimeout(ctx context.Context, timeout time.Duration, b []byte) (int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return r.p.read(ctx, b)
}

// SetFixedLength enables backpressure on the underlying pipe; exposed on both
// halves since either side may be the one configuring capture behavior.
func (r *Reader) SetFixedLength() { r.p.setFixedLength() }

// Close half-closes the reader side. Idempotent.
func (r *Reader) Close() error { return r.p.closeReader() }
