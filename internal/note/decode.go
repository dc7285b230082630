package note

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeFile converts the bytes of an opened file to text the way a browser
// reads a text file: a UTF-8 or UTF-16 byte order mark selects the encoding
// and is dropped, anything else is read as UTF-8 with invalid bytes replaced
// by U+FFFD.
func DecodeFile(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
