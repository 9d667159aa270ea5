// Package pipe implements a bounded, in-memory byte pipe used to decouple a
// child process's stdio from its consumers. It supports async read/write with
// timeouts and cancellation, optional fixed-length backpressure, and safe
// teardown whether the reader or the writer side closes first.
package pipe

import (
	"context"
	"io"
	"math"
	"sync"
)

// MinCapacity is the smallest backing buffer a Pipe ever allocates.
const MinCapacity = 256

// DefaultByteBuffer is the recommended chunk size used by stream adapters
// reading from an OS pipe into a Pipe, and the unit fixed-length mode clamps
// against (capacity is clamped to 2x this value).
const DefaultByteBuffer = 4096

// Pipe is a ring-buffered byte pipe with half-close semantics. The zero value
// is not usable; construct with New.
type Pipe struct {
	mu sync.Mutex

	buf   []byte
	start int
	count int

	byteBuffer int
	fixed      bool

	writerClosed bool
	readerClosed bool

	pendingCloseWriter bool
	pendingCloseReader bool

	readInFlight  bool
	writeInFlight bool

	// bytesAvail is a binary semaphore: signaled iff count>0 || writerClosed.
	bytesAvail chan struct{}
	// spaceAvail is non-nil only in fixed-length mode: signaled iff
	// readerClosed || freeSpace()>0.
	spaceAvail chan struct{}
}

// New creates a Pipe and returns its write-only and read-only halves.
func New() (*Writer, *Reader) {
	return NewSize(DefaultByteBuffer)
}

// NewSize creates a Pipe whose fixed-length clamp (once enabled) is
// 2*byteBuffer, and whose drain-chunk recommendation is byteBuffer.
func NewSize(byteBuffer int) (*Writer, *Reader) {
	if byteBuffer <= 0 {
		byteBuffer = DefaultByteBuffer
	}
	p := &Pipe{
		byteBuffer: byteBuffer,
		bytesAvail: make(chan struct{}, 1),
	}
	return &Writer{p: p}, &Reader{p: p}
}

func (p *Pipe) fixedClamp() int { return 2 * p.byteBuffer }

func (p *Pipe) freeSpaceLocked() int {
	if p.fixed {
		return p.fixedClamp() - p.count
	}
	return len(p.buf) - p.count
}

// recomputeLocked releases or acquires each semaphore's single pending token
// to match the predicate it encodes. Invoked after every state mutation so
// both readers and writers observe a consistent signal regardless of which
// side last touched the pipe.
func (p *Pipe) recomputeLocked() {
	setSignal(p.bytesAvail, p.count > 0 || p.writerClosed)
	if p.spaceAvail != nil {
		setSignal(p.spaceAvail, p.readerClosed || p.freeSpaceLocked() > 0)
	}
}

func setSignal(ch chan struct{}, target bool) {
	if target {
		select {
		case ch <- struct{}{}:
		default:
		}
		return
	}
	select {
	case <-ch:
	default:
	}
}

// acquire waits for ch to be signaled, honoring ctx. It pre-checks ctx before
// blocking so an already-cancelled context never enters the select.
func acquire(ctx context.Context, ch chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return classify(err)
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return classify(ctx.Err())
	}
}

func classify(err error) error {
	if err == context.DeadlineExceeded {
		return ErrTimeout
	}
	return ErrCancelled
}

// ensureCapacityLocked grows buf so it can hold count+extra bytes. In
// fixed-length mode growth never exceeds the 2x clamp; callers on that path
// have already confirmed free space covers extra.
func (p *Pipe) ensureCapacityLocked(extra int) error {
	required := p.count + extra
	if required < 0 {
		return ErrTooLong
	}
	limit := math.MaxInt
	if p.fixed {
		limit = p.fixedClamp()
	}
	if required > limit {
		return ErrTooLong
	}
	if required <= len(p.buf) {
		return nil
	}
	newCap := required
	if len(p.buf) < MinCapacity {
		if newCap < MinCapacity {
			newCap = MinCapacity
		}
	} else {
		doubled := len(p.buf) * 2
		if doubled < 0 {
			doubled = math.MaxInt
		}
		if newCap < doubled {
			newCap = doubled
		}
	}
	if newCap > limit {
		newCap = limit
	}
	nb := make([]byte, newCap)
	if p.count > 0 {
		n := copy(nb, p.buf[p.start:])
		if n < p.count {
			copy(nb[n:], p.buf[:p.count-n])
		}
	}
	p.buf = nb
	p.start = 0
	return nil
}

func (p *Pipe) writeLocked(data []byte) {
	capLen := len(p.buf)
	writePos := (p.start + p.count) % capLen
	n := copy(p.buf[writePos:], data)
	if n < len(data) {
		copy(p.buf[:len(data)-n], data[n:])
	}
	p.count += len(data)
}

func (p *Pipe) readLocked(dst []byte) int {
	n := len(dst)
	if n > p.count {
		n = p.count
	}
	capLen := len(p.buf)
	first := copy(dst[:n], p.buf[p.start:])
	if first < n {
		copy(dst[first:n], p.buf[:n-first])
	}
	p.start = (p.start + n) % capLen
	p.count -= n
	if p.count == 0 {
		p.start = 0
		if p.fixed && len(p.buf) > p.fixedClamp() {
			p.buf = make([]byte, p.fixedClamp())
		}
	}
	return n
}

func (p *Pipe) applyPendingCloseWriterLocked() {
	if p.pendingCloseWriter {
		p.pendingCloseWriter = false
		p.closeWriterLocked()
	}
}

func (p *Pipe) applyPendingCloseReaderLocked() {
	if p.pendingCloseReader {
		p.pendingCloseReader = false
		p.closeReaderLocked()
	}
}

func (p *Pipe) closeWriterLocked() {
	if p.writerClosed {
		return
	}
	p.writerClosed = true
	p.recomputeLocked()
	p.releaseIfBothClosedLocked()
}

func (p *Pipe) closeReaderLocked() {
	if p.readerClosed {
		return
	}
	p.readerClosed = true
	p.recomputeLocked()
	p.releaseIfBothClosedLocked()
}

func (p *Pipe) releaseIfBothClosedLocked() {
	if p.writerClosed && p.readerClosed {
		p.buf = nil
		p.start = 0
		p.count = 0
	}
}

func (p *Pipe) closeWriter() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writerClosed {
		return nil
	}
	if p.writeInFlight {
		p.pendingCloseWriter = true
		return nil
	}
	p.closeWriterLocked()
	return nil
}

func (p *Pipe) closeReader() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readerClosed {
		return nil
	}
	if p.readInFlight {
		p.pendingCloseReader = true
		return nil
	}
	p.closeReaderLocked()
	return nil
}

// setFixedLength enables backpressure. No-op if either side is already
// closed or fixed-length mode is already active.
func (p *Pipe) setFixedLength() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readerClosed || p.writerClosed || p.fixed {
		return
	}
	p.fixed = true
	p.spaceAvail = make(chan struct{}, 1)
	p.recomputeLocked()
}

// write is the cancellable, optionally-blocking write path shared by the
// exported Write/WriteContext/WriteTimeout variants.
func (p *Pipe) write(ctx context.Context, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, classify(err)
	}
	if len(data) == 0 {
		return 0, nil
	}

	p.mu.Lock()
	if p.writerClosed {
		p.mu.Unlock()
		return 0, ErrClosedWriter
	}
	if p.writeInFlight {
		p.mu.Unlock()
		return 0, ErrConcurrentWrite
	}
	if p.readerClosed {
		p.mu.Unlock()
		return len(data), nil
	}
	if !p.fixed || p.freeSpaceLocked() >= len(data) {
		if err := p.ensureCapacityLocked(len(data)); err != nil {
			p.mu.Unlock()
			return 0, err
		}
		p.writeLocked(data)
		p.recomputeLocked()
		p.mu.Unlock()
		return len(data), nil
	}

	// Slow path: backpressure. Only the first semaphore acquisition honors
	// ctx; once any bytes are accepted the remainder loops unconditionally
	// so a write is never observed as partial followed by an error.
	p.writeInFlight = true
	ch := p.spaceAvail
	p.mu.Unlock()

	if err := acquire(ctx, ch); err != nil {
		p.mu.Lock()
		p.writeInFlight = false
		p.applyPendingCloseWriterLocked()
		p.mu.Unlock()
		return 0, err
	}

	written := 0
	remaining := data
	background := context.Background()
	for {
		p.mu.Lock()
		if p.readerClosed {
			written = len(data)
			p.writeInFlight = false
			p.applyPendingCloseWriterLocked()
			p.mu.Unlock()
			return written, nil
		}
		free := p.freeSpaceLocked()
		n := len(remaining)
		if n > free {
			n = free
		}
		if n > 0 {
			if err := p.ensureCapacityLocked(n); err != nil {
				p.writeInFlight = false
				p.applyPendingCloseWriterLocked()
				p.mu.Unlock()
				return written, err
			}
			p.writeLocked(remaining[:n])
			remaining = remaining[n:]
			written += n
		}
		p.recomputeLocked()
		if len(remaining) == 0 {
			p.writeInFlight = false
			p.applyPendingCloseWriterLocked()
			p.mu.Unlock()
			return written, nil
		}
		ch2 := p.spaceAvail
		p.mu.Unlock()

		if err := acquire(background, ch2); err != nil {
			// background never cancels or times out.
			return written, err
		}
	}
}

// read is the cancellable, optionally-blocking read path shared by the
// exported Read/ReadContext/ReadTimeout variants.
func (p *Pipe) read(ctx context.Context, dst []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, classify(err)
	}
	if len(dst) == 0 {
		return 0, nil
	}

	p.mu.Lock()
	if p.readerClosed {
		p.mu.Unlock()
		return 0, ErrClosedReader
	}
	if p.readInFlight {
		p.mu.Unlock()
		return 0, ErrConcurrentRead
	}
	if p.count > 0 {
		n := p.readLocked(dst)
		p.recomputeLocked()
		p.mu.Unlock()
		return n, nil
	}
	if p.writerClosed {
		p.mu.Unlock()
		return 0, io.EOF
	}

	p.readInFlight = true
	ch := p.bytesAvail
	p.mu.Unlock()

	if err := acquire(ctx, ch); err != nil {
		p.mu.Lock()
		p.readInFlight = false
		p.applyPendingCloseReaderLocked()
		p.mu.Unlock()
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.readInFlight = false
	defer p.applyPendingCloseReaderLocked()
	if p.count == 0 {
		if p.writerClosed {
			return 0, io.EOF
		}
		return 0, nil
	}
	n := p.readLocked(dst)
	p.recomputeLocked()
	return n, nil
}
