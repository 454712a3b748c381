// Package encoding provides text decoding for names stored in client data files.
package encoding

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DecodeName converts a raw filename to a UTF-8 string.
// Valid UTF-8 is returned as is; anything else is decoded as Windows-1252,
// which older client builds used for texture paths.
func DecodeName(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}
