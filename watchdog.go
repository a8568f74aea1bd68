package fetch

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

var errReadTimeout = errors.New("read timed out")

// watchdog cancels a fetch when the server stays silent for longer than the
// read budget. A zero budget disables it.
type watchdog struct {
	timeout time.Duration
	cancel  context.CancelCauseFunc

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newWatchdog(timeout time.Duration, cancel context.CancelCauseFunc) *watchdog {
	return &watchdog{timeout: timeout, cancel: cancel}
}

func (w *watchdog) arm() {
	if w.timeout <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.timeout, func() { w.cancel(errReadTimeout) })
		return
	}
	w.timer.Reset(w.timeout)
}

func (w *watchdog) pause() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *watchdog) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
}

// reader arms the watchdog around every Read on r.
func (w *watchdog) reader(r io.Reader) io.Reader {
	return &watchedReader{r: r, w: w}
}

type watchedReader struct {
	r io.Reader
	w *watchdog
}

func (wr *watchedReader) Read(p []byte) (int, error) {
	wr.w.arm()
	n, err := wr.r.Read(p)
	wr.w.pause()
	return n, err
}
