package fetch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/wesleyorama2/fetch/internal/charset"
	"github.com/wesleyorama2/fetch/pkg/jsonpath"
	"github.com/wesleyorama2/fetch/pkg/jsonschema"
)

// Response is a completed exchange. The body has already been read into
// memory, so every accessor can be called any number of times.
type Response struct {
	statusCode    int
	statusText    string
	headers       http.Header
	contentLength int64
	body          []byte

	// Timing contains detailed timing information
	Timing TimingInfo

	release    func()
	disconnect sync.Once
}

func newResponse(resp *http.Response, body []byte, timing TimingInfo, release func()) *Response {
	if body == nil {
		body = []byte{}
	}
	return &Response{
		statusCode:    resp.StatusCode,
		statusText:    statusText(resp),
		headers:       resp.Header.Clone(),
		contentLength: resp.ContentLength,
		body:          body,
		Timing:        timing,
		release:       release,
	}
}

// statusText strips the code from "200 OK" style status lines.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range.
func (r *Response) IsRedirect() bool {
	return r.statusCode >= 300 && r.statusCode < 400
}

// IsClientError returns true if the response status code is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.statusCode >= 400 && r.statusCode < 500
}

// IsServerError returns true if the response status code is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.statusCode >= 500 && r.statusCode < 600
}

// StatusCode returns the numeric status, e.g. 200 or 404.
func (r *Response) StatusCode() int {
	return r.statusCode
}

// StatusText returns the reason phrase, e.g. "OK" or "Not Found".
func (r *Response) StatusText() string {
	return r.statusText
}

// HasHeader reports whether the response carries the named header.
func (r *Response) HasHeader(name string) bool {
	_, ok := r.headers[http.CanonicalHeaderKey(name)]
	return ok
}

// Header returns the first value of the named header, matched
// case-insensitively, or "" if absent.
func (r *Response) Header(name string) string {
	return r.headers.Get(name)
}

// Headers returns a copy of all response headers.
func (r *Response) Headers() http.Header {
	return r.headers.Clone()
}

// ContentType returns the media type of the Content-Type header without its
// parameters, or "" if the header is absent.
func (r *Response) ContentType() string {
	mediaType, _, _ := strings.Cut(r.headers.Get("Content-Type"), ";")
	return strings.TrimSpace(mediaType)
}

// ContentEncoding returns the Content-Encoding header when present, else the
// charset declared by Content-Type, else DefaultCharset. It reports false
// only when there is no Content-Type header at all.
func (r *Response) ContentEncoding() (string, bool) {
	if enc := r.headers.Get("Content-Encoding"); enc != "" {
		return enc, true
	}
	if !r.HasHeader("Content-Type") {
		return "", false
	}
	if cs, ok := charset.ContentCharset(r.headers.Get("Content-Type")); ok {
		return cs, true
	}
	return DefaultCharset, true
}

// ContentLength returns the declared length, or the number of body bytes
// received when none was declared.
func (r *Response) ContentLength() int64 {
	if r.contentLength >= 0 {
		return r.contentLength
	}
	return int64(len(r.body))
}

// Body decodes the body with the charset from ContentEncoding, falling back
// to UTF-8 when it is missing or unsupported.
func (r *Response) Body() string {
	name := DefaultCharset
	if enc, ok := r.ContentEncoding(); ok && charset.Supported(enc) {
		name = enc
	}
	s, err := charset.Decode(r.body, name)
	if err != nil {
		return string(r.body)
	}
	return s
}

// BodyWithCharset decodes the body with the named charset.
func (r *Response) BodyWithCharset(name string) (string, error) {
	s, err := charset.Decode(r.body, name)
	if err != nil {
		return "", newError(KindInvalidCharset, "decode", "", err)
	}
	return s, nil
}

// BodyBytes returns a copy of the raw body.
func (r *Response) BodyBytes() []byte {
	out := make([]byte, len(r.body))
	copy(out, r.body)
	return out
}

// BodySize returns the number of body bytes received.
func (r *Response) BodySize() int {
	return len(r.body)
}

// JSON unmarshals the body into v.
//
// Example:
//
//	var users []User
//	if err := resp.JSON(&users); err != nil {
//	    log.Fatal(err)
//	}
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.body, v)
}

// JSONPath extracts a value from a JSON body, e.g. "$.users[0].name".
func (r *Response) JSONPath(path string) (string, error) {
	return jsonpath.Extract(r.Body(), path)
}

// ValidateSchema checks a JSON body against a JSON Schema document.
func (r *Response) ValidateSchema(schema string) error {
	valid, errs := jsonschema.ValidateWithErrors(r.Body(), schema)
	if valid {
		return nil
	}
	return errs
}

// Disconnect closes the idle connections of the client that produced r. The
// pool is shared, so idle connections left behind by other responses from
// the same client are closed too; connections in use are not affected.
// Calling it is optional and safe more than once.
func (r *Response) Disconnect() {
	r.disconnect.Do(func() {
		if r.release != nil {
			r.release()
		}
	})
}

func (r *Response) String() string {
	return fmt.Sprintf("Response{status=%d %s, headers=%v, body=%s}",
		r.statusCode, r.statusText, map[string][]string(r.headers), r.Body())
}
