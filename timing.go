package fetch

import (
	"crypto/tls"
	"net/http/httptrace"
	"time"
)

// TimingInfo stores how long each phase of a fetch took.
type TimingInfo struct {
	// StartTime is when the request was handed to the transport
	StartTime time.Time

	// DNSLookupTime is the time spent resolving the host
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing the TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent in the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte is measured from the end of the last connection phase
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent draining the response body
	ContentTransferTime time.Duration

	// TotalTime covers the whole exchange, body included
	TotalTime time.Duration
}

// newClientTrace records phase timings into timing and drives the read
// watchdog: it is armed once the request is written and re-armed when the
// first response byte arrives, so the rest of the header block stays on the
// same budget.
func newClientTrace(timing *TimingInfo, wd *watchdog) *httptrace.ClientTrace {
	var dnsStart, connectStart, tlsStart time.Time
	var connectDone bool
	var lastPhaseEnd time.Time

	return &httptrace.ClientTrace{
		GetConn: func(hostPort string) {
			lastPhaseEnd = time.Now()
		},
		DNSStart: func(info httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			now := time.Now()
			timing.DNSLookupTime = now.Sub(dnsStart)
			lastPhaseEnd = now
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				now := time.Now()
				timing.TCPConnectTime = now.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = now
			}
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsStart.IsZero() {
				now := time.Now()
				timing.TLSHandshakeTime = now.Sub(tlsStart)
				lastPhaseEnd = now
			}
		},
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			if info.Err == nil {
				wd.arm()
			}
		},
		GotFirstResponseByte: func() {
			wd.arm()
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
}
