//go:build !windows

package scriptable

import "golang.org/x/text/encoding"

// defaultEncoding is nil on POSIX: stdio already carries UTF-8, the same
// assumption os/exec itself makes.
func defaultEncoding() encoding.Encoding { return nil }
