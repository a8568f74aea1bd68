package fetch

import (
	"fmt"
	"strings"
)

// Method is an HTTP request method.
type Method string

// Supported request methods.
const (
	// GET requests a representation of the resource.
	GET Method = "GET"
	// HEAD is GET without the response body.
	HEAD Method = "HEAD"
	// POST submits an entity to the resource.
	POST Method = "POST"
	// PUT replaces the resource with the request payload.
	PUT Method = "PUT"
	// DELETE deletes the resource.
	DELETE Method = "DELETE"
	// OPTIONS describes the communication options for the resource.
	OPTIONS Method = "OPTIONS"
	// TRACE performs a message loop-back test.
	TRACE Method = "TRACE"
)

var methods = []Method{GET, HEAD, POST, PUT, DELETE, OPTIONS, TRACE}

// Methods returns every supported method.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// ParseMethod matches name case-insensitively against the supported methods.
func ParseMethod(name string) (Method, error) {
	upper := Method(strings.ToUpper(strings.TrimSpace(name)))
	for _, m := range methods {
		if m == upper {
			return m, nil
		}
	}
	return "", newError(KindInvalidMethod, "method", "", fmt.Errorf("unsupported method %q", name))
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	for _, known := range methods {
		if m == known {
			return true
		}
	}
	return false
}

func (m Method) String() string {
	return string(m)
}
