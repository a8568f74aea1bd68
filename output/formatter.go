// Package output renders fetch requests and responses for humans.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/wesleyorama2/fetch"
)

// Formatter renders requests and responses as text
type Formatter struct {
	Verbose bool
	NoColor bool
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
	}
}

func (f *Formatter) scheme() *ColorScheme {
	if f.NoColor {
		return NoColorScheme()
	}
	return DefaultColorScheme()
}

// FormatRequest formats the request p would send to rawURL. A nil p is
// rendered as a plain GET.
func (f *Formatter) FormatRequest(rawURL string, p *fetch.Params) string {
	if p == nil {
		p = fetch.NewParams()
	}
	scheme := f.scheme()
	var buf strings.Builder

	target, err := p.URL(rawURL)
	if err != nil {
		target = rawURL
	}
	method := p.Method
	if method == "" {
		method = fetch.GET
	}
	fmt.Fprintf(&buf, "▶ REQUEST: %s %s\n", scheme.Method.Sprint(method), scheme.URL.Sprint(target))

	if len(p.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(p.Headers) {
			fmt.Fprintf(&buf, "    %s: %s\n", scheme.HeaderKey.Sprint(key), p.Headers[key])
		}
	}

	if f.Verbose {
		fmt.Fprintf(&buf, "  Follow redirects: %t\n", p.FollowRedirects)
		fmt.Fprintf(&buf, "  Use caches:       %t\n", p.UseCaches)
		fmt.Fprintf(&buf, "  Connect timeout:  %s\n", p.ConnectionTimeout)
		fmt.Fprintf(&buf, "  Read timeout:     %s\n", p.ReadTimeout)
	}

	if p.Body != nil {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(string(p.Body)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats a response for display
func (f *Formatter) FormatResponse(resp *fetch.Response) string {
	scheme := f.scheme()
	var buf strings.Builder

	status := fmt.Sprintf("%d %s", resp.StatusCode(), resp.StatusText())
	fmt.Fprintf(&buf, "◀ RESPONSE: %s (%dms)\n",
		scheme.statusColor(resp.StatusCode()).Sprint(strings.TrimSpace(status)),
		resp.Timing.TotalTime.Milliseconds())

	if f.Verbose {
		t := resp.Timing
		buf.WriteString("  Timing:\n")
		fmt.Fprintf(&buf, "    DNS Lookup:         %s\n", millis(t.DNSLookupTime))
		fmt.Fprintf(&buf, "    TCP Connection:     %s\n", millis(t.TCPConnectTime))
		fmt.Fprintf(&buf, "    TLS Handshake:      %s\n", millis(t.TLSHandshakeTime))
		fmt.Fprintf(&buf, "    Time to First Byte: %s\n", millis(t.TimeToFirstByte))
		fmt.Fprintf(&buf, "    Content Transfer:   %s\n", millis(t.ContentTransferTime))
		fmt.Fprintf(&buf, "    Total:              %s\n", millis(t.TotalTime))

		headers := resp.Headers()
		keys := make([]string, 0, len(headers))
		for k := range headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteString("  Headers:\n")
		for _, key := range keys {
			for _, value := range headers[key] {
				fmt.Fprintf(&buf, "    %s: %s\n", scheme.HeaderKey.Sprint(key), value)
			}
		}
	}

	if body := resp.Body(); body != "" {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// Dump writes resp to w. Colors are used only when w is a terminal.
func Dump(w io.Writer, resp *fetch.Response, verbose bool) error {
	f := NewFormatter(verbose, !isTerminal(w))
	_, err := io.WriteString(w, f.FormatResponse(resp))
	return err
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(s), "  ", "  "); err != nil {
		return s
	}
	return pretty.String()
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
