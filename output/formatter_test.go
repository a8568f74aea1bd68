package output

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/fetch"
)

func fetchFrom(t *testing.T, status int, contentType, body string) *fetch.Response {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Trace", "abc")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	resp, err := fetch.NewClient().Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)
	return resp
}

func TestFormatter_FormatRequest(t *testing.T) {
	formatter := NewFormatter(true, true)

	p := fetch.NewParams().
		WithMethod(fetch.POST).
		WithHeader("Accept", "application/json").
		WithHeader("Authorization", "Bearer token123").
		WithQuery("page", 1).
		WithQuery("q", "a b").
		WithReadTimeout(5 * time.Second).
		WithBodyString(`{"name":"John Doe"}`)

	output := formatter.FormatRequest("https://api.example.com/users", p)

	for _, part := range []string{
		"REQUEST: POST https://api.example.com/users?page=1&q=a+b",
		"Headers:",
		"Accept: application/json",
		"Authorization: Bearer token123",
		"Read timeout:     5s",
		"Body: {",
		`"name": "John Doe"`,
	} {
		assert.Contains(t, output, part)
	}
	assert.Less(t, strings.Index(output, "Accept"), strings.Index(output, "Authorization"))
}

func TestFormatter_FormatRequestNilParams(t *testing.T) {
	output := NewFormatter(false, true).FormatRequest("http://localhost/x", nil)
	assert.Equal(t, "▶ REQUEST: GET http://localhost/x\n", output)
}

func TestFormatter_FormatResponse(t *testing.T) {
	resp := fetchFrom(t, http.StatusOK, "application/json", `{"id":1,"tags":["a"]}`)

	output := NewFormatter(false, true).FormatResponse(resp)
	assert.Contains(t, output, "RESPONSE: 200 OK")
	assert.Contains(t, output, "Body:\n{\n    \"id\": 1,")
	assert.NotContains(t, output, "Timing:")
	assert.NotContains(t, output, "X-Trace")

	verbose := NewFormatter(true, true).FormatResponse(resp)
	for _, part := range []string{"Timing:", "DNS Lookup:", "Time to First Byte:", "Headers:", "X-Trace: abc"} {
		assert.Contains(t, verbose, part)
	}
}

func TestFormatter_FormatResponseNonJSON(t *testing.T) {
	resp := fetchFrom(t, http.StatusNotFound, "text/plain", "nothing here")

	output := NewFormatter(false, true).FormatResponse(resp)
	assert.Contains(t, output, "RESPONSE: 404 Not Found")
	assert.Contains(t, output, "nothing here")
}

func TestDump_NoColorForNonTerminal(t *testing.T) {
	resp := fetchFrom(t, http.StatusInternalServerError, "text/plain", "boom")

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, resp, false))
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "500 Internal Server Error")
	assert.False(t, isTerminal(&buf))
}

func TestColorSchemes(t *testing.T) {
	scheme := DefaultColorScheme()
	assert.Same(t, scheme.StatusOK, scheme.statusColor(204))
	assert.Same(t, scheme.StatusWarn, scheme.statusColor(302))
	assert.Same(t, scheme.StatusError, scheme.statusColor(404))
	assert.Same(t, scheme.StatusError, scheme.statusColor(503))

	plain := NoColorScheme()
	assert.Equal(t, "GET", plain.Method.Sprint("GET"))
}
