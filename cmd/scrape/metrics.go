package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/KooshaS/top-soccer-matches/internal/config"
	"github.com/KooshaS/top-soccer-matches/internal/metrics"
	"github.com/KooshaS/top-soccer-matches/internal/metrics/datadog"
	"github.com/KooshaS/top-soccer-matches/internal/metrics/prompush"
)

// setupMetrics installs the configured backend and returns the func that
// flushes it and restores the nop backend. A backend that cannot be built
// leaves metrics disabled; metrics never fail a run.
func setupMetrics(ctx context.Context, mc config.MetricsConfig, log logrus.FieldLogger) func() {
	reset := func() { metrics.SetBackend(nil) }

	switch mc.Backend {
	case config.MetricsPushgateway:
		b, err := prompush.NewBackend(mc.Job, mc.PushgatewayURL)
		if err != nil {
			log.WithError(err).Warn("metrics: failed to init prom push backend; using nop")
			return reset
		}
		log.WithFields(logrus.Fields{"backend": mc.Backend, "url": mc.PushgatewayURL, "job": mc.Job}).Debug("metrics enabled")
		metrics.SetBackend(b)
		return func() {
			if err := metrics.Flush(); err != nil {
				log.WithError(err).Warn("metrics: flush")
			}
			reset()
		}

	case config.MetricsDatadog:
		tags := datadog.ParseTagsCSV(mc.Tags)
		b, err := datadog.NewBackend(ctx, datadog.Options{
			JobName: mc.Job,
			Tags:    tags,
		})
		if err != nil {
			log.WithError(err).Warn("metrics: failed to init datadog backend; using nop")
			return reset
		}
		log.WithFields(logrus.Fields{"backend": mc.Backend, "job": mc.Job, "tags": tags}).Debug("metrics enabled")
		metrics.SetBackend(b)
		// Close stops the periodic loop and performs the final submit.
		return func() {
			if err := b.Close(); err != nil {
				log.WithError(err).Warn("metrics: datadog close")
			}
			reset()
		}

	default:
		log.WithField("backend", mc.Backend).Debug("metrics disabled")
		return reset
	}
}
