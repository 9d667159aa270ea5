package scriptable

import (
	"io"
	"os"
	"strings"
)

// FilePath marks a string as a filesystem path rather than literal content,
// disambiguating RedirectStandardInput/Output/Error's `any` parameter from a
// raw string source/sink.
type FilePath string

// buildStdinSource resolves src into a reader plus an optional extra closer
// (e.g. an opened file) to release once the copy finishes. Accepted types:
// io.Reader, FilePath, []string (joined with line terminators), string
// (literal content), []rune (literal content).
func buildStdinSource(src any) (io.Reader, io.Closer, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil, ErrInvalidArgument
	case FilePath:
		f, err := os.Open(string(v))
		if err != nil {
			return nil, nil, &Error{Op: "redirect stdin", Err: err}
		}
		return f, f, nil
	case []string:
		var b strings.Builder
		for _, line := range v {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		return strings.NewReader(b.String()), nil, nil
	case string:
		return strings.NewReader(v), nil, nil
	case []rune:
		return strings.NewReader(string(v)), nil, nil
	case io.Reader:
		if c, ok := v.(io.Closer); ok {
			return v, c, nil
		}
		return v, nil, nil
	default:
		return nil, nil, ErrInvalidArgument
	}
}
