package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"os"
	"time"
)

const (
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// DefaultClient is used by the package-level Fetch functions and NewParams.
// Replace it at start-up if different defaults are needed; it is not
// synchronized against concurrent replacement.
var DefaultClient = NewClient()

// Client performs fetches. It is safe for concurrent use by multiple
// goroutines.
type Client struct {
	defaults  Defaults
	transport *http.Transport
	tlsConfig *tls.Config
	logger    *slog.Logger
	observers []Observer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a Client. Without options it uses StandardDefaults, a
// pooled transport and a logger that discards everything.
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		defaults: StandardDefaults(),
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, option := range options {
		option(c)
	}

	if c.transport == nil {
		c.transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          DefaultMaxIdleConns,
			MaxIdleConnsPerHost:   DefaultMaxIdleConnsPerHost,
			IdleConnTimeout:       DefaultIdleConnTimeout,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: time.Second,
			ForceAttemptHTTP2:     true,
		}
	}
	c.transport.DialContext = dialContext
	if c.tlsConfig != nil {
		c.transport.TLSClientConfig = c.tlsConfig
	}

	return c
}

// WithDefaults sets the values every Params from this client starts with.
func WithDefaults(d Defaults) ClientOption {
	return func(c *Client) {
		c.defaults = d
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers an observer notified after every fetch.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		c.observers = append(c.observers, o)
	}
}

// WithTLSConfig sets the TLS configuration of the transport.
func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(c *Client) {
		c.tlsConfig = cfg
	}
}

// WithTransport uses a clone of t for connection pooling settings. Its
// dialer is replaced so that connect budgets can be applied per request.
func WithTransport(t *http.Transport) ClientOption {
	return func(c *Client) {
		if t != nil {
			c.transport = t.Clone()
		}
	}
}

// Defaults returns a copy of the client's defaults.
func (c *Client) Defaults() Defaults {
	d := c.defaults
	d.Headers = make(map[string]string, len(c.defaults.Headers))
	for k, v := range c.defaults.Headers {
		d.Headers[k] = v
	}
	return d
}

// NewParams returns a GET Params seeded from the client's defaults.
func (c *Client) NewParams() *Params {
	return newParams(c.defaults)
}

// Fetch fetches rawURL with default parameters using DefaultClient.
func Fetch(ctx context.Context, rawURL string) (*Response, error) {
	return DefaultClient.Fetch(ctx, rawURL, nil)
}

// FetchWithParams fetches rawURL with p using DefaultClient.
func FetchWithParams(ctx context.Context, rawURL string, p *Params) (*Response, error) {
	return DefaultClient.Fetch(ctx, rawURL, p)
}

// Fetch performs one blocking request/response exchange and drains the
// response body into memory. A nil p uses the client's defaults.
//
// Every failure is an *Error: an unusable URL is KindInvalidURL, a query
// that cannot be encoded is KindInvalidCharset, an exceeded connect or read
// budget is KindTimeout and any other transport failure is
// KindHostNotFound. Responses with error statuses are returned normally.
func (c *Client) Fetch(ctx context.Context, rawURL string, p *Params) (*Response, error) {
	if p == nil {
		p = c.NewParams()
	}

	start := time.Now()
	resp, err := c.fetch(ctx, rawURL, p)
	if err != nil {
		c.logger.Warn("fetch failed",
			"method", p.Method.String(),
			"url", rawURL,
			"kind", KindOf(err).String(),
			"error", err.Error())
	}

	event := Event{
		Method:   p.Method,
		URL:      rawURL,
		Duration: time.Since(start),
		Response: resp,
		Err:      err,
	}
	for _, o := range c.observers {
		o.ObserveFetch(event)
	}

	return resp, err
}

func (c *Client) fetch(ctx context.Context, rawURL string, p *Params) (*Response, error) {
	if err := p.Err(); err != nil {
		return nil, err
	}
	method := p.Method
	if method == "" {
		method = GET
	}
	if !method.Valid() {
		return nil, newError(KindInvalidMethod, "method", rawURL, fmt.Errorf("unsupported method %q", string(method)))
	}

	target, err := p.renderURL(rawURL)
	if err != nil {
		return nil, newError(KindInvalidCharset, "query", rawURL, err)
	}
	if err := validateURL(target); err != nil {
		return nil, newError(KindInvalidURL, "open", target, err)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	wd := newWatchdog(p.ReadTimeout, cancel)
	defer wd.stop()

	var timing TimingInfo
	ctx = httptrace.WithClientTrace(ctx, newClientTrace(&timing, wd))
	ctx = context.WithValue(ctx, connectTimeoutKey{}, p.ConnectionTimeout)

	var body io.Reader
	if p.Body != nil {
		body = bytes.NewReader(p.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method.String(), target, body)
	if err != nil {
		return nil, newError(KindInvalidURL, "open", target, err)
	}
	for key, value := range p.Headers {
		req.Header.Set(key, value)
	}
	if !p.UseCaches {
		if req.Header.Get("Cache-Control") == "" {
			req.Header.Set("Cache-Control", "no-cache")
		}
		if req.Header.Get("Pragma") == "" {
			req.Header.Set("Pragma", "no-cache")
		}
	}

	c.logger.Debug("sending request",
		"method", method.String(),
		"url", target,
		"body_bytes", len(p.Body))

	timing.StartTime = time.Now()
	httpResp, err := c.httpClient(p).Do(req)
	if err != nil {
		return nil, classify(ctx, target, err)
	}
	defer httpResp.Body.Close()
	wd.pause()

	transferStart := time.Now()
	data, err := io.ReadAll(wd.reader(httpResp.Body))
	if err != nil {
		return nil, classify(ctx, target, err)
	}
	timing.ContentTransferTime = time.Since(transferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	c.logger.Debug("received response",
		"method", method.String(),
		"url", target,
		"status", httpResp.StatusCode,
		"body_bytes", len(data))

	return newResponse(httpResp, data, timing, c.transport.CloseIdleConnections), nil
}

func (c *Client) httpClient(p *Params) *http.Client {
	follow := p.FollowRedirects
	return &http.Client{
		Transport: c.transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !follow {
				return http.ErrUseLastResponse
			}
			if len(via) >= 20 {
				return errors.New("stopped after 20 redirects")
			}
			return nil
		},
	}
}

type connectTimeoutKey struct{}

func dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := net.Dialer{KeepAlive: 30 * time.Second}
	if timeout, ok := ctx.Value(connectTimeoutKey{}).(time.Duration); ok {
		dialer.Timeout = timeout
	}
	return dialer.DialContext(ctx, network, addr)
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q (only http and https are allowed)", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL must have a host")
	}
	return nil
}

// classify folds a transport failure into KindTimeout or KindHostNotFound.
func classify(ctx context.Context, target string, err error) *Error {
	if isTimeout(ctx, err) {
		return newError(KindTimeout, "request", target, err)
	}
	return newError(KindHostNotFound, "request", target, err)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(context.Cause(ctx), errReadTimeout) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
