// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label used when a request never got an HTTP response.
const StatusError = "error"

var (
	ContentAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_api_requests_total",
			Help: "Total number of requests sent to the WordPress content API",
		},
		[]string{"endpoint", "status"},
	)

	ContentAPIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_api_request_duration_seconds",
			Help:    "Duration of WordPress content API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PageRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_renders_total",
			Help: "Total number of rendered pages by page and HTTP status",
		},
		[]string{"page", "status"},
	)
)

// ObserveContentAPI records one content API request.
// statusCode 0 means the request failed before a response arrived.
func ObserveContentAPI(endpoint string, statusCode int, duration time.Duration) {
	status := StatusError
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	ContentAPIRequestsTotal.WithLabelValues(endpoint, status).Inc()
	ContentAPIRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// IncPageRender counts a rendered page.
func IncPageRender(page string, statusCode int) {
	PageRendersTotal.WithLabelValues(page, strconv.Itoa(statusCode)).Inc()
}
