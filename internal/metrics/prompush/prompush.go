// Package prompush implements a Prometheus Pushgateway backend for the
// internal/metrics package.
//
// A scrape run is a batch job: it exits before any Prometheus server could
// scrape it, so observations are collected in a private registry and pushed
// to a Pushgateway on Flush.
package prompush

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/KooshaS/top-soccer-matches/internal/metrics"
)

// Backend implements metrics.Backend on top of client_golang collectors.
type Backend struct {
	pusher *push.Pusher

	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	labelNames map[string][]string
}

// NewBackend builds a backend that pushes to gatewayURL under job.
func NewBackend(job, gatewayURL string) (*Backend, error) {
	if strings.TrimSpace(gatewayURL) == "" {
		return nil, fmt.Errorf("prompush: empty pushgateway url")
	}
	if strings.TrimSpace(job) == "" {
		job = "top_soccer_matches"
	}

	reg := prometheus.NewRegistry()
	b := &Backend{
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		labelNames: make(map[string][]string),
	}

	b.counter(reg, metrics.StepTotal, "Pipeline step outcomes.", "step", "status")
	b.counter(reg, metrics.RecordsTotal, "Records produced per dataset.", "kind")
	b.counter(reg, metrics.HTTPRequestsTotal, "Outbound HTTP attempts.", "status")
	b.counter(reg, metrics.HTTPErrorsTotal, "Outbound HTTP attempts that failed.", "status")

	b.histogram(reg, metrics.StepDurationSeconds, "Pipeline step duration.", prometheus.DefBuckets, "step", "status")
	b.histogram(reg, metrics.HTTPDurationSeconds, "Outbound HTTP request duration.", prometheus.DefBuckets, "status")
	b.histogram(reg, metrics.HTTPDownloadBytes, "Outbound HTTP body size.", prometheus.ExponentialBuckets(1024, 4, 8), "status")

	b.pusher = push.New(gatewayURL, job).Gatherer(reg)
	return b, nil
}

func (b *Backend) counter(reg *prometheus.Registry, name, help string, labels ...string) {
	v := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
	reg.MustRegister(v)
	b.counters[name] = v
	b.labelNames[name] = labels
}

func (b *Backend) histogram(reg *prometheus.Registry, name, help string, buckets []float64, labels ...string) {
	v := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}, labels)
	reg.MustRegister(v)
	b.histograms[name] = v
	b.labelNames[name] = labels
}

// promLabels projects labels onto exactly the names registered for metric;
// client_golang panics on missing or extra label names.
func (b *Backend) promLabels(metric string, labels metrics.Labels) prometheus.Labels {
	names := b.labelNames[metric]
	out := make(prometheus.Labels, len(names))
	for _, n := range names {
		v := labels[n]
		if v == "" {
			v = "unknown"
		}
		out[n] = v
	}
	return out
}

// IncCounter implements metrics.Backend. Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	c, ok := b.counters[name]
	if !ok || delta <= 0 {
		return
	}
	c.With(b.promLabels(name, labels)).Add(delta)
}

// ObserveHistogram implements metrics.Backend. Unknown names are ignored.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	h, ok := b.histograms[name]
	if !ok || value < 0 {
		return
	}
	h.With(b.promLabels(name, labels)).Observe(value)
}

// Flush pushes the current registry state, replacing the job's group on the
// gateway.
func (b *Backend) Flush() error {
	if err := b.pusher.Push(); err != nil {
		return fmt.Errorf("prompush: push: %w", err)
	}
	return nil
}

var (
	_ metrics.Backend = (*Backend)(nil)
	_ metrics.Flusher = (*Backend)(nil)
)
