//go:build windows

package scriptable

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// defaultEncoding mirrors cmd.exe's console defaults: UTF-16LE, honoring a
// byte-order-mark if the child actually writes one instead of assuming it.
func defaultEncoding() encoding.Encoding {
	return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
}
