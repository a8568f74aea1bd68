// Package charset extracts charset parameters from Content-Type values and
// transcodes between Go strings and charset-encoded bytes.
package charset

import (
	"fmt"
	"strings"

	htmlcharset "golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// Default is the charset used when none is declared.
const Default = "UTF-8"

// ContentCharset returns the value of the charset parameter of a Content-Type
// header value, e.g. "UTF-8" for "text/html; charset=UTF-8".
func ContentCharset(contentType string) (string, bool) {
	for _, segment := range strings.Split(contentType, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(segment), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "charset") {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if value == "" {
			continue
		}
		return value, true
	}
	return "", false
}

// Lookup resolves a charset name to its encoding. The second return value is
// the canonical name of the charset.
func Lookup(name string) (encoding.Encoding, string, error) {
	enc, canonical := htmlcharset.Lookup(strings.TrimSpace(name))
	if enc == nil {
		return nil, "", fmt.Errorf("unsupported charset %q", name)
	}
	return enc, canonical, nil
}

// Supported reports whether name is a charset Lookup can resolve.
func Supported(name string) bool {
	_, _, err := Lookup(name)
	return err == nil
}

// Encode converts s to bytes in the named charset. Runes the charset cannot
// represent are replaced.
func Encode(s, name string) ([]byte, error) {
	enc, _, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return out, nil
}

// Decode converts bytes in the named charset to a string. Malformed input is
// replaced with U+FFFD.
func Decode(b []byte, name string) (string, error) {
	enc, _, err := Lookup(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), nil
}
