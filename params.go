package fetch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/wesleyorama2/fetch/internal/charset"
	"github.com/wesleyorama2/fetch/internal/query"
)

// DefaultTimeout is the connect and read budget of StandardDefaults.
const DefaultTimeout = 60 * time.Second

// DefaultCharset is used when no charset is declared or the declared one is
// unsupported.
const DefaultCharset = charset.Default

// Defaults seeds every Params created by a Client.
type Defaults struct {
	FollowRedirects   bool
	UseCaches         bool
	ConnectionTimeout time.Duration
	ReadTimeout       time.Duration
	Headers           map[string]string
}

// StandardDefaults returns redirects and caches on, 60 second budgets and no
// headers.
func StandardDefaults() Defaults {
	return Defaults{
		FollowRedirects:   true,
		UseCaches:         true,
		ConnectionTimeout: DefaultTimeout,
		ReadTimeout:       DefaultTimeout,
		Headers:           make(map[string]string),
	}
}

// QueryParam is one query parameter. Value is rendered with fmt.Sprint.
type QueryParam struct {
	Key   string
	Value any
}

// Params collects everything about a request except its URL. Setters return
// the receiver so calls can be chained:
//
//	p := fetch.NewParams().
//	    WithMethod(fetch.POST).
//	    WithContentType("application/json").
//	    WithBodyString(`{"name":"gopher"}`)
//
// A Params is not safe for concurrent mutation.
type Params struct {
	Method            Method
	Headers           map[string]string
	Query             []QueryParam
	FollowRedirects   bool
	UseCaches         bool
	ConnectionTimeout time.Duration
	ReadTimeout       time.Duration
	// Body is sent when non-nil. Setting it does not set Content-Type.
	Body []byte

	err error
}

// NewParams returns a GET Params seeded from DefaultClient's defaults.
func NewParams() *Params {
	return DefaultClient.NewParams()
}

func newParams(d Defaults) *Params {
	headers := make(map[string]string, len(d.Headers))
	for k, v := range d.Headers {
		headers[k] = v
	}
	return &Params{
		Method:            GET,
		Headers:           headers,
		FollowRedirects:   d.FollowRedirects,
		UseCaches:         d.UseCaches,
		ConnectionTimeout: nonNegative(d.ConnectionTimeout),
		ReadTimeout:       nonNegative(d.ReadTimeout),
	}
}

// Err returns the first error latched by a setter, such as an unknown
// method name. Fetch returns it without touching the network.
func (p *Params) Err() error {
	return p.err
}

// WithMethod sets the request method. The default is GET.
func (p *Params) WithMethod(m Method) *Params {
	if !m.Valid() {
		p.fail(newError(KindInvalidMethod, "method", "", fmt.Errorf("unsupported method %q", string(m))))
		return p
	}
	p.Method = m
	return p
}

// WithMethodName sets the request method by case-insensitive name. An
// unrecognized name is latched as an ErrInvalidMethod error.
func (p *Params) WithMethodName(name string) *Params {
	m, err := ParseMethod(name)
	if err != nil {
		p.fail(err)
		return p
	}
	p.Method = m
	return p
}

// WithHeader sets a request header, replacing any previous value for key.
func (p *Params) WithHeader(key, value string) *Params {
	if p.Headers == nil {
		p.Headers = make(map[string]string)
	}
	p.Headers[key] = value
	return p
}

// WithHeaders sets several request headers.
func (p *Params) WithHeaders(headers map[string]string) *Params {
	for k, v := range headers {
		p.WithHeader(k, v)
	}
	return p
}

// Common Content-Type values for WithContentType.
const (
	ContentTypeJSON        = "application/json"
	ContentTypeXML         = "application/xml"
	ContentTypeForm        = "application/x-www-form-urlencoded"
	ContentTypeText        = "text/plain"
	ContentTypeHTML        = "text/html"
	ContentTypeOctetStream = "application/octet-stream"
)

// WithContentType sets the Content-Type header.
func (p *Params) WithContentType(contentType string) *Params {
	return p.WithHeader("Content-Type", contentType)
}

// WithFollowRedirects sets whether 3xx responses are followed.
func (p *Params) WithFollowRedirects(follow bool) *Params {
	p.FollowRedirects = follow
	return p
}

// WithUseCaches sets whether intermediaries may answer from cache. When
// false, Cache-Control and Pragma no-cache headers are sent unless set
// explicitly.
func (p *Params) WithUseCaches(use bool) *Params {
	p.UseCaches = use
	return p
}

// WithConnectionTimeout sets the connect budget. Zero means no limit;
// negative values are ignored.
func (p *Params) WithConnectionTimeout(d time.Duration) *Params {
	if d >= 0 {
		p.ConnectionTimeout = d
	}
	return p
}

// WithReadTimeout sets how long the response may stall, both waiting for
// the headers and between body reads. Zero means no limit; negative values
// are ignored.
func (p *Params) WithReadTimeout(d time.Duration) *Params {
	if d >= 0 {
		p.ReadTimeout = d
	}
	return p
}

// WithTimeout sets both the connect and read budgets.
func (p *Params) WithTimeout(d time.Duration) *Params {
	return p.WithConnectionTimeout(d).WithReadTimeout(d)
}

// WithBody sets the raw request body. The slice is not copied.
func (p *Params) WithBody(body []byte) *Params {
	p.Body = body
	return p
}

// WithBodyString sets the request body to the UTF-8 bytes of body.
func (p *Params) WithBodyString(body string) *Params {
	p.Body = []byte(body)
	return p
}

// WithBodyCharset sets the request body to body encoded in the named
// charset. An unsupported charset is latched as an ErrInvalidCharset error.
func (p *Params) WithBodyCharset(body, charsetName string) *Params {
	b, err := charset.Encode(body, charsetName)
	if err != nil {
		p.fail(newError(KindInvalidCharset, "body", "", err))
		return p
	}
	p.Body = b
	return p
}

// WithQuery adds a query parameter. Setting an existing key replaces its
// value and keeps its position.
func (p *Params) WithQuery(key string, value any) *Params {
	for i := range p.Query {
		if p.Query[i].Key == key {
			p.Query[i].Value = value
			return p
		}
	}
	p.Query = append(p.Query, QueryParam{Key: key, Value: value})
	return p
}

// Clone returns a deep copy of p.
func (p *Params) Clone() *Params {
	c := *p
	c.Headers = make(map[string]string, len(p.Headers))
	for k, v := range p.Headers {
		c.Headers[k] = v
	}
	c.Query = append([]QueryParam(nil), p.Query...)
	if p.Body != nil {
		c.Body = append([]byte{}, p.Body...)
	}
	return &c
}

// header looks key up case-insensitively.
func (p *Params) header(key string) (string, bool) {
	want := http.CanonicalHeaderKey(key)
	for k, v := range p.Headers {
		if http.CanonicalHeaderKey(k) == want {
			return v, true
		}
	}
	return "", false
}

// URL returns rawURL with the query parameters appended, exactly as Fetch
// would send it.
func (p *Params) URL(rawURL string) (string, error) {
	u, err := p.renderURL(rawURL)
	if err != nil {
		return "", newError(KindInvalidCharset, "query", rawURL, err)
	}
	return u, nil
}

// renderURL appends the query parameters, encoded in the charset declared
// by the Content-Type header or UTF-8.
func (p *Params) renderURL(rawURL string) (string, error) {
	if len(p.Query) == 0 {
		return rawURL, nil
	}
	name := DefaultCharset
	if ct, ok := p.header("Content-Type"); ok {
		if declared, ok := charset.ContentCharset(ct); ok {
			name = declared
		}
	}

	pairs := make([]query.Pair, len(p.Query))
	for i, q := range p.Query {
		pairs[i] = query.Pair{Key: q.Key, Value: stringify(q.Value)}
	}
	return query.Append(rawURL, pairs, name)
}

func (p *Params) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
