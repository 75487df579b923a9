// Package metrics is the backend-agnostic metrics facade used by the scraper.
//
// Pipeline code only calls the Record* helpers. Which system receives the
// data (Prometheus Pushgateway, Datadog, or nothing) is decided once at
// startup with SetBackend. The default backend discards everything, so tests
// and tools that never configure metrics pay nothing.
package metrics

import (
	"strconv"
	"sync"
	"time"
)

// Labels are metric dimensions. Backends ignore labels they do not know.
type Labels map[string]string

// Backend receives raw counter and histogram observations.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

// Flusher is implemented by backends that buffer observations.
type Flusher interface {
	Flush() error
}

// Metric names shared by every backend.
const (
	StepTotal           = "scrape_step_total"
	StepDurationSeconds = "scrape_step_duration_seconds"
	RecordsTotal        = "scrape_records_total"
	HTTPRequestsTotal   = "scrape_http_requests_total"
	HTTPErrorsTotal     = "scrape_http_errors_total"
	HTTPDurationSeconds = "scrape_http_request_duration_seconds"
	HTTPDownloadBytes   = "scrape_http_download_bytes"
)

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b as the process-wide backend. A nil b restores the
// no-op backend.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush flushes the installed backend if it buffers observations.
func Flush() error {
	if f, ok := current().(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// RecordStep counts one pipeline step outcome and its duration.
//
// outcome is a short word such as "live", "fallback", "empty", "ok" or "error".
func RecordStep(step, outcome string, d time.Duration) {
	b := current()
	l := Labels{"step": step, "status": outcome}
	b.IncCounter(StepTotal, 1, l)
	b.ObserveHistogram(StepDurationSeconds, d.Seconds(), l)
}

// RecordRecords counts n produced records of the given kind ("rankings", "fixtures").
func RecordRecords(kind string, n int) {
	if n <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(n), Labels{"kind": kind})
}

// RecordHTTP records a single HTTP attempt.
//
// status is 0 when no response was received; err is the transport or status
// error, if any. size is the body size in bytes, or negative when unknown.
func RecordHTTP(status int, err error, d time.Duration, size int64) {
	b := current()
	s := "none"
	if status > 0 {
		s = strconv.Itoa(status)
	}
	l := Labels{"status": s}

	b.IncCounter(HTTPRequestsTotal, 1, l)
	if err != nil || status < 200 || status >= 300 {
		b.IncCounter(HTTPErrorsTotal, 1, l)
	}
	if d > 0 {
		b.ObserveHistogram(HTTPDurationSeconds, d.Seconds(), l)
	}
	if size >= 0 {
		b.ObserveHistogram(HTTPDownloadBytes, float64(size), l)
	}
}
