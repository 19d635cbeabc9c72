package srt

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode converts raw subtitle bytes to a string, trying UTF-8 (with or
// without BOM) first and falling back to Windows-1252, then Latin-1.
// Subtitle files in the wild routinely carry legacy single-byte encodings.
func decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	if out, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		return string(out)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Latin-1 maps every byte; unreachable in practice.
		return string(data)
	}
	return string(out)
}
