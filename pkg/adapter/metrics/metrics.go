// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metrics collects the Prometheus metrics of the fcweb, namely
// the REST requests latencies and the image intake batches outcomes,
// and exposes them in the Prometheus text format.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/furucamera/pkg/core/usecase/intakeuc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fcweb"

// Metrics keeps the collectors in a dedicated registry, so more than
// one instance may be created (e.g., by tests) without conflicts.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.HistogramVec
	batches  *prometheus.CounterVec
	files    *prometheus.CounterVec
	duration prometheus.Histogram
}

var _ intakeuc.Observer = (*Metrics)(nil)

// New creates the collectors and registers them, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Spent time by processing a route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method", "path"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "batches_total",
			Help:      "Number of image intake batches by their outcome",
		}, []string{"via", "outcome"}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "files_total",
			Help:      "Number of processed image files by their result",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "batch_duration_seconds",
			Help:      "Spent time by processing an accepted batch",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.requests, m.batches, m.files, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware measures the requests latencies. Unmatched routes are
// recorded with the /not-found path in order to limit the labels
// cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "/not-found"
		}
		m.requests.WithLabelValues(
			strconv.Itoa(c.Writer.Status()), c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

// Registry returns the underlying registry, so callers may register
// more collectors or gather the current values.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveBatch implements the intakeuc.Observer interface.
func (m *Metrics) ObserveBatch(_ context.Context, s intakeuc.BatchStats) {
	if s.Rejected != nil {
		m.batches.WithLabelValues(string(s.Via), "rejected").Inc()
		return
	}
	m.batches.WithLabelValues(string(s.Via), "accepted").Inc()
	m.files.WithLabelValues("uploaded").Add(float64(s.Uploaded))
	m.files.WithLabelValues("inlined").Add(float64(s.Inlined))
	m.files.WithLabelValues("failed").Add(float64(s.Failed))
	m.duration.Observe(s.Duration.Seconds())
}
