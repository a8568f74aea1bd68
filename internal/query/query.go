// Package query renders ordered query parameters onto a URL using form
// encoding in a caller-selected charset.
package query

import (
	"strings"

	"github.com/wesleyorama2/fetch/internal/charset"
)

// Pair is a single rendered query parameter.
type Pair struct {
	Key   string
	Value string
}

// Append returns rawURL followed by "?" and the encoded pairs joined by "&".
// rawURL is returned unchanged when pairs is empty.
func Append(rawURL string, pairs []Pair, charsetName string) (string, error) {
	if len(pairs) == 0 {
		return rawURL, nil
	}
	if charsetName == "" {
		charsetName = charset.Default
	}

	var sb strings.Builder
	sb.WriteString(rawURL)
	sb.WriteByte('?')
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		key, err := Escape(p.Key, charsetName)
		if err != nil {
			return "", err
		}
		value, err := Escape(p.Value, charsetName)
		if err != nil {
			return "", err
		}
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(value)
	}
	return sb.String(), nil
}

// Escape form-encodes s after converting it to the named charset. Letters,
// digits and ".-*_" pass through, a space becomes "+", and every other byte
// becomes an upper-case %XX escape.
func Escape(s, charsetName string) (string, error) {
	b, err := charset.Encode(s, charsetName)
	if err != nil {
		return "", err
	}

	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch {
		case unreserved(c):
			sb.WriteByte(c)
		case c == ' ':
			sb.WriteByte('+')
		default:
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0x0F])
		}
	}
	return sb.String(), nil
}

func unreserved(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '.' || c == '-' || c == '*' || c == '_'
}
