package toprevenue

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnsanitizable marks customer text that never became valid UTF-8.
var ErrUnsanitizable = errors.New("text not sanitizable to valid UTF-8")

// Sanitize makes a customer text field safe for JSON and PDF output:
// legacy encodings are transcoded to UTF-8, control characters and
// characters that break JSON embedding are stripped. When even the
// ASCII-only fallback stays invalid the caller drops the record.
func Sanitize(s string) (string, error) {
	if !utf8.ValidString(s) {
		// Legacy imports carry Windows-1252 text.
		decoded, err := charmap.Windows1252.NewDecoder().String(s)
		if err == nil {
			s = decoded
		}
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r < 0x20, r == 0x7f:
			return -1
		case r == '\\', r == '"':
			return -1
		}
		return r
	}, s)

	if !utf8.ValidString(s) {
		s = asciiOnly(s)
	}
	if !utf8.ValidString(s) {
		return "", ErrUnsanitizable
	}

	return strings.TrimSpace(s), nil
}

func asciiOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
