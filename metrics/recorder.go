// Package metrics aggregates fetch latencies and outcomes. A Recorder is a
// fetch.Observer:
//
//	rec := metrics.NewRecorder()
//	client := fetch.NewClient(fetch.WithObserver(rec))
//	...
//	snap := rec.Snapshot()
//	fmt.Printf("p99=%v errors=%d\n", snap.Latency.P99, snap.Failed)
package metrics

import (
	"net/url"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/wesleyorama2/fetch"
)

// Histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Recorder collects latency histograms overall and per host, plus counts by
// status class and error kind. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	overall  *hdrhistogram.Histogram
	perHost  map[string]*hdrhistogram.Histogram
	statuses map[int]int64
	errors   map[fetch.Kind]int64
	bytes    int64
	ok       int64
	notOK    int64
	start    time.Time
}

// LatencyStats contains latency statistics.
type LatencyStats struct {
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stdDev"`
	P50    time.Duration `json:"p50"`
	P90    time.Duration `json:"p90"`
	P95    time.Duration `json:"p95"`
	P99    time.Duration `json:"p99"`
	Count  int64         `json:"count"`
}

// Snapshot is a point-in-time copy of the recorded metrics.
type Snapshot struct {
	// Total is every observed fetch, failed ones included
	Total int64 `json:"total"`
	// OK counts responses with a 2xx status
	OK int64 `json:"ok"`
	// NotOK counts responses with any other status
	NotOK int64 `json:"notOk"`
	// Failed counts fetches that returned an error
	Failed int64 `json:"failed"`
	// StatusClasses maps 2, 3, 4, 5 to the number of 2xx, 3xx, ... responses
	StatusClasses map[int]int64 `json:"statusClasses"`
	// Errors maps an error kind to its count
	Errors     map[fetch.Kind]int64    `json:"errors"`
	TotalBytes int64                   `json:"totalBytes"`
	Latency    LatencyStats            `json:"latency"`
	Hosts      map[string]LatencyStats `json:"hosts"`
	Elapsed    time.Duration           `json:"elapsed"`
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.Reset()
	return r
}

// ObserveFetch implements fetch.Observer.
func (r *Recorder) ObserveFetch(e fetch.Event) {
	latency := clamp(e.Duration.Microseconds())
	host := hostOf(e.URL)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.overall.RecordValue(latency)
	if host != "" {
		hist, ok := r.perHost[host]
		if !ok {
			hist = newHistogram()
			r.perHost[host] = hist
		}
		hist.RecordValue(latency)
	}

	if e.Err != nil {
		r.errors[fetch.KindOf(e.Err)]++
		return
	}
	r.statuses[e.Response.StatusCode()/100]++
	r.bytes += int64(e.Response.BodySize())
	if e.Response.OK() {
		r.ok++
	} else {
		r.notOK++
	}
}

// Snapshot returns the current metrics.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		Total:         r.overall.TotalCount(),
		OK:            r.ok,
		NotOK:         r.notOK,
		StatusClasses: make(map[int]int64, len(r.statuses)),
		Errors:        make(map[fetch.Kind]int64, len(r.errors)),
		TotalBytes:    r.bytes,
		Latency:       stats(r.overall),
		Hosts:         make(map[string]LatencyStats, len(r.perHost)),
		Elapsed:       time.Since(r.start),
	}
	for class, n := range r.statuses {
		snap.StatusClasses[class] = n
	}
	for kind, n := range r.errors {
		snap.Errors[kind] = n
		snap.Failed += n
	}
	for host, hist := range r.perHost {
		snap.Hosts[host] = stats(hist)
	}
	return snap
}

// Reset clears everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.overall = newHistogram()
	r.perHost = make(map[string]*hdrhistogram.Histogram)
	r.statuses = make(map[int]int64)
	r.errors = make(map[fetch.Kind]int64)
	r.bytes, r.ok, r.notOK = 0, 0, 0
	r.start = time.Now()
}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
}

func stats(h *hdrhistogram.Histogram) LatencyStats {
	if h.TotalCount() == 0 {
		return LatencyStats{}
	}
	micros := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return LatencyStats{
		Min:    micros(h.Min()),
		Max:    micros(h.Max()),
		Mean:   time.Duration(h.Mean() * float64(time.Microsecond)),
		StdDev: time.Duration(h.StdDev() * float64(time.Microsecond)),
		P50:    micros(h.ValueAtQuantile(50)),
		P90:    micros(h.ValueAtQuantile(90)),
		P95:    micros(h.ValueAtQuantile(95)),
		P99:    micros(h.ValueAtQuantile(99)),
		Count:  h.TotalCount(),
	}
}

func clamp(v int64) int64 {
	if v < histogramMin {
		return histogramMin
	}
	if v > histogramMax {
		return histogramMax
	}
	return v
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
