// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus metrics for the redaction service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docredact"

// Collector owns a private registry and every metric the service records.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	redactionsTotal   *prometheus.CounterVec
	redactionDuration prometheus.Histogram
	entitiesTotal     *prometheus.CounterVec
	scanErrors        *prometheus.CounterVec
	nerFallbacks      prometheus.Counter
	nerUp             prometheus.Gauge
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewCollector creates and registers all metrics. If registry is nil a new
// one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		redactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redactions_total",
				Help:      "Redaction calls by source (api, cli).",
			},
			[]string{"source"},
		),
		redactionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "redaction_duration_seconds",
				Help:      "Time spent in a single redaction call.",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
		entitiesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entities_redacted_total",
				Help:      "Redacted entities by kind.",
			},
			[]string{"kind"},
		),
		scanErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scan_errors_total",
				Help:      "Redactions aborted because an extractor could not scan the whole text.",
			},
			[]string{"extractor"},
		),
		nerFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ner_fallbacks_total",
				Help:      "Name detections that fell back to the regex strategy after an NER error.",
			},
		),
		nerUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ner_up",
				Help:      "1 when the NER sidecar answered its last health check.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route and status code.",
			},
			[]string{"route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	registry.MustRegister(
		c.redactionsTotal,
		c.redactionDuration,
		c.entitiesTotal,
		c.scanErrors,
		c.nerFallbacks,
		c.nerUp,
		c.httpRequests,
		c.httpDuration,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordRedaction records one redaction call and the entity counts it
// produced, keyed by kind label.
func (c *Collector) RecordRedaction(source string, duration time.Duration, kinds map[string]int) {
	if c == nil {
		return
	}
	c.redactionsTotal.WithLabelValues(source).Inc()
	c.redactionDuration.Observe(duration.Seconds())
	for kind, n := range kinds {
		c.entitiesTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordScanError counts an aborted scan by extractor name.
func (c *Collector) RecordScanError(extractor string) {
	if c == nil {
		return
	}
	c.scanErrors.WithLabelValues(extractor).Inc()
}

// RecordNERFallback counts a call-time fallback from the NER strategy.
func (c *Collector) RecordNERFallback() {
	if c == nil {
		return
	}
	c.nerFallbacks.Inc()
}

// SetNERUp records the outcome of the last NER health check.
func (c *Collector) SetNERUp(up bool) {
	if c == nil {
		return
	}
	if up {
		c.nerUp.Set(1)
	} else {
		c.nerUp.Set(0)
	}
}

// RecordHTTPRequest records a served request. route should be the route
// pattern, not the raw path, to bound cardinality.
func (c *Collector) RecordHTTPRequest(route string, code int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}
