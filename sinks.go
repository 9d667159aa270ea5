package scriptable

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// buildStdoutSink resolves dst into a writer plus an optional extra closer
// to finalize once the copy finishes. Accepted types: io.Writer, FilePath,
// *[]string (one element per line), *[]rune (entire captured text).
func buildStdoutSink(dst any) (io.Writer, io.Closer, error) {
	switch v := dst.(type) {
	case nil:
		return nil, nil, ErrInvalidArgument
	case FilePath:
		f, err := os.Create(string(v))
		if err != nil {
			return nil, nil, &Error{Op: "redirect output", Err: err}
		}
		return f, f, nil
	case *[]string:
		w := &lineCollector{target: v}
		return w, w, nil
	case *[]rune:
		w := &runeCollector{target: v}
		return w, w, nil
	case io.Writer:
		if c, ok := v.(io.Closer); ok {
			return v, c, nil
		}
		return v, nil, nil
	default:
		return nil, nil, ErrInvalidArgument
	}
}

// lineCollector appends each newline-terminated chunk written to it as a
// separate element of *target, buffering a trailing partial line until
// Close flushes it.
type lineCollector struct {
	target *[]string
	buf    []byte
}

func (w *lineCollector) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		*w.target = append(*w.target, strings.TrimSuffix(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineCollector) Close() error {
	if len(w.buf) > 0 {
		*w.target = append(*w.target, strings.TrimSuffix(string(w.buf), "\r"))
		w.buf = nil
	}
	return nil
}

// runeCollector accumulates everything written to it and decodes it as a
// single rune slice on Close.
type runeCollector struct {
	target *[]rune
	buf    []byte
}

func (w *runeCollector) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *runeCollector) Close() error {
	*w.target = append(*w.target, []rune(string(w.buf))...)
	w.buf = nil
	return nil
}
