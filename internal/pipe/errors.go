package pipe

import "errors"

// Sentinel errors returned by Pipe operations. Callers should compare with
// errors.Is. A context that expires or is cancelled surfaces as ErrTimeout or
// ErrCancelled; the context's own error is not wrapped.
var (
	ErrClosedReader    = errors.New("pipe: reader closed")
	ErrClosedWriter    = errors.New("pipe: writer closed")
	ErrConcurrentRead  = errors.New("pipe: read already in progress")
	ErrConcurrentWrite = errors.New("pipe: write already in progress")
	ErrTimeout         = errors.New("pipe: operation timed out")
	ErrCancelled       = errors.New("pipe: operation cancelled")
	ErrInvalidBuffer   = errors.New("pipe: invalid offset/count")
	ErrTooLong         = errors.New("pipe: requested capacity overflows int")
)
