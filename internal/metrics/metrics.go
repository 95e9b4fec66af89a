// Package metrics declares the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every collector name.
const Namespace = "weighttracker"

// Collector names and label keys.
const (
	NameHTTPRequests        = "http_requests_total"
	NameHTTPRequestDuration = "http_request_duration_seconds"
	NameAuthFailures        = "auth_failures_total"
	NameStorageErrors       = "storage_errors_total"

	LabelRoute     = "route"
	LabelMethod    = "method"
	LabelStatus    = "status"
	LabelReason    = "reason"
	LabelOperation = "operation"
)

// HTTPRequests counts served requests.
var HTTPRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameHTTPRequests,
		Help:      "Total HTTP requests by route pattern, method and status",
		Namespace: Namespace,
	},
	[]string{LabelRoute, LabelMethod, LabelStatus},
)

// HTTPRequestDuration observes request latency in seconds.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      NameHTTPRequestDuration,
		Help:      "HTTP request latency by route pattern and method",
		Namespace: Namespace,
		Buckets:   prometheus.DefBuckets,
	},
	[]string{LabelRoute, LabelMethod},
)

// AuthFailures counts rejected requests by wire error code.
var AuthFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameAuthFailures,
		Help:      "Requests rejected by bearer authentication",
		Namespace: Namespace,
	},
	[]string{LabelReason},
)

// StorageErrors counts storage failures answered with a 500.
var StorageErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameStorageErrors,
		Help:      "Storage failures surfaced as server errors",
		Namespace: Namespace,
	},
	[]string{LabelOperation},
)
