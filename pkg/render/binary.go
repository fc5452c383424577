package render

import (
	"bytes"
	"unicode/utf8"
)

// looksBinary reports whether data cannot be treated as template text.
func looksBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data)
}
