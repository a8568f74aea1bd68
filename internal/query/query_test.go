package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		pairs    []Pair
		charset  string
		expected string
	}{
		{
			name:     "no pairs leaves the URL alone",
			url:      "https://example.com/path",
			expected: "https://example.com/path",
		},
		{
			name:     "insertion order is kept",
			url:      "https://example.com/search",
			pairs:    []Pair{{"z", "1"}, {"a", "2"}, {"m", "3"}},
			expected: "https://example.com/search?z=1&a=2&m=3",
		},
		{
			name:     "spaces and reserved characters",
			url:      "http://localhost",
			pairs:    []Pair{{"q", "hello world&more=yes"}},
			expected: "http://localhost?q=hello+world%26more%3Dyes",
		},
		{
			name:     "unreserved punctuation passes through",
			url:      "http://localhost",
			pairs:    []Pair{{"v", "a.b-c*d_e~f"}},
			expected: "http://localhost?v=a.b-c*d_e%7Ef",
		},
		{
			name:     "utf-8 multi-byte",
			url:      "http://localhost",
			pairs:    []Pair{{"name", "café"}},
			charset:  "UTF-8",
			expected: "http://localhost?name=caf%C3%A9",
		},
		{
			name:     "latin-1 single byte",
			url:      "http://localhost",
			pairs:    []Pair{{"name", "café"}},
			charset:  "ISO-8859-1",
			expected: "http://localhost?name=caf%E9",
		},
		{
			name:     "keys are escaped too",
			url:      "http://localhost",
			pairs:    []Pair{{"a key", "v"}},
			expected: "http://localhost?a+key=v",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Append(tt.url, tt.pairs, tt.charset)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAppend_SingleQuestionMark(t *testing.T) {
	got, err := Append("http://localhost/x", []Pair{{"a", "?"}, {"b", "c"}}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "?"))
}

func TestAppend_UnknownCharset(t *testing.T) {
	_, err := Append("http://localhost", []Pair{{"a", "b"}}, "klingon-8")
	assert.Error(t, err)
}

func TestAppend_UnknownCharsetWithoutPairs(t *testing.T) {
	got, err := Append("http://localhost", nil, "klingon-8")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost", got)
}
