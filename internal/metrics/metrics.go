// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route template (e.g. "/api/posts/:id")
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// AuthAttemptsTotal counts register and login outcomes.
// Labels:
//   - action: "register" or "login"
//   - result: "success" or a short failure reason
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts by result.",
	},
	[]string{"action", "result"},
)

// PostMutationsTotal counts successful post writes.
// Label:
//   - op: "create", "update" or "delete"
var PostMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_mutations_total",
		Help:      "Total number of successful post mutations.",
	},
	[]string{"op"},
)
