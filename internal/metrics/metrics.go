package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "API requests served, by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Login attempts by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	TasksCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_created_total",
			Help: "Tasks created by assignment target",
		},
		[]string{"assigned_to"},
	)

	TaskCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "task_completions_total",
			Help: "Per-employee task completions recorded",
		},
	)
)
