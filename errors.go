package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors not produced by this package.
	KindUnknown Kind = iota
	// KindInvalidURL means the URL is malformed or cannot be opened.
	KindInvalidURL
	// KindInvalidCharset means a charset name is not supported.
	KindInvalidCharset
	// KindInvalidMethod means an HTTP method name is not recognized.
	KindInvalidMethod
	// KindTimeout means the connect or read budget was exceeded.
	KindTimeout
	// KindHostNotFound covers every other transport failure: DNS errors,
	// refused connections, TLS failures and resets alike.
	KindHostNotFound
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindInvalidURL:     "invalid URL",
	KindInvalidCharset: "invalid charset",
	KindInvalidMethod:  "invalid method",
	KindTimeout:        "timeout",
	KindHostNotFound:   "host not found",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for use with errors.Is.
var (
	ErrInvalidURL     = errors.New("fetch: invalid URL")
	ErrInvalidCharset = errors.New("fetch: invalid charset")
	ErrInvalidMethod  = errors.New("fetch: invalid method")
	ErrTimeout        = errors.New("fetch: timeout")
	ErrHostNotFound   = errors.New("fetch: host not found")
)

var kindSentinels = map[Kind]error{
	KindInvalidURL:     ErrInvalidURL,
	KindInvalidCharset: ErrInvalidCharset,
	KindInvalidMethod:  ErrInvalidMethod,
	KindTimeout:        ErrTimeout,
	KindHostNotFound:   ErrHostNotFound,
}

// Error is the error type returned by every failing operation in this package.
type Error struct {
	Kind Kind
	// Op is the step that failed, e.g. "request" or "method".
	Op string
	// URL is the request URL, when one is known.
	URL string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := "fetch: " + e.Kind.String()
	if e.Op != "" {
		msg = "fetch: " + e.Op + ": " + e.Kind.String()
	}
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// KindOf returns the Kind of err, or KindUnknown if err does not come from
// this package.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

func newError(kind Kind, op, url string, err error) *Error {
	return &Error{Kind: kind, Op: op, URL: url, Err: err}
}
