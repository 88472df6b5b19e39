// Reelytics - Movie Dataset Analytics Platform
// Copyright 2026 Reelytics contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelytics/reelytics

// Package metrics provides Prometheus instrumentation for:
//   - API endpoint latency and throughput
//   - Cleaning pipeline row accounting
//   - Analytics query performance
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Cleaning pipeline metrics
	PipelineRowsRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_rows_read_total",
			Help: "Raw rows read by the cleaning pipeline",
		},
	)

	PipelineRowsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_rows_dropped_total",
			Help: "Raw rows dropped for unparseable release dates",
		},
	)

	PipelineRowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_rows_written_total",
			Help: "Canonical rows written after genre explosion",
		},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_run_duration_seconds",
			Help:    "Duration of full cleaning pipeline runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Analytics engine metrics
	AnalyticsQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_query_duration_seconds",
			Help:    "Duration of analytics queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	AnalyticsQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_query_errors_total",
			Help: "Total number of analytics query errors",
		},
		[]string{"query", "error_type"},
	)

	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_canonical_rows",
			Help: "Canonical rows held in memory by the analytics engine",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAnalyticsQuery records one analytics query execution.
func RecordAnalyticsQuery(query string, duration time.Duration, err error) {
	AnalyticsQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	if err != nil {
		AnalyticsQueryErrors.WithLabelValues(query, errorType(err)).Inc()
	}
}

// errorType buckets errors into coarse categories for the error counter.
func errorType(err error) string {
	if err == nil {
		return "none"
	}
	return "query_failure"
}
