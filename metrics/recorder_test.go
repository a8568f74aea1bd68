package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/fetch"
)

func TestRecorder_ObservesClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	rec := NewRecorder()
	client := fetch.NewClient(fetch.WithObserver(rec))

	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background(), server.URL, nil)
		require.NoError(t, err)
	}
	_, err := client.Fetch(context.Background(), server.URL+"/missing", nil)
	require.NoError(t, err)
	_, err = client.Fetch(context.Background(), "mailto:someone", nil)
	require.Error(t, err)

	snap := rec.Snapshot()
	assert.Equal(t, int64(5), snap.Total)
	assert.Equal(t, int64(3), snap.OK)
	assert.Equal(t, int64(1), snap.NotOK)
	assert.Equal(t, int64(1), snap.Failed)
	assert.Equal(t, int64(3), snap.StatusClasses[2])
	assert.Equal(t, int64(1), snap.StatusClasses[4])
	assert.Equal(t, int64(1), snap.Errors[fetch.KindInvalidURL])
	assert.Equal(t, int64(15+len("404 page not found\n")), snap.TotalBytes)
	assert.Equal(t, int64(5), snap.Latency.Count)

	host := server.Listener.Addr().String()
	require.Contains(t, snap.Hosts, host)
	assert.Equal(t, int64(4), snap.Hosts[host].Count)
}

func TestRecorder_LatencyPercentiles(t *testing.T) {
	rec := NewRecorder()
	for i := 1; i <= 100; i++ {
		rec.ObserveFetch(fetch.Event{
			URL:      "http://example.com",
			Duration: time.Duration(i) * time.Millisecond,
			Err:      &fetch.Error{Kind: fetch.KindTimeout},
		})
	}

	snap := rec.Snapshot()
	assert.Equal(t, int64(100), snap.Errors[fetch.KindTimeout])
	assert.InDelta(t, float64(50*time.Millisecond), float64(snap.Latency.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(99*time.Millisecond), float64(snap.Latency.P99), float64(time.Millisecond))
	assert.InDelta(t, float64(time.Millisecond), float64(snap.Latency.Min), float64(10*time.Microsecond))
	assert.InDelta(t, float64(100*time.Millisecond), float64(snap.Latency.Max), float64(time.Millisecond))
}

func TestRecorder_ConcurrentAndReset(t *testing.T) {
	rec := NewRecorder()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				rec.ObserveFetch(fetch.Event{URL: "http://a", Duration: time.Millisecond, Err: &fetch.Error{Kind: fetch.KindHostNotFound}})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(400), rec.Snapshot().Total)

	rec.Reset()
	snap := rec.Snapshot()
	assert.Zero(t, snap.Total)
	assert.Empty(t, snap.Hosts)
	assert.Equal(t, LatencyStats{}, snap.Latency)
}
