package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StatusTransitions counts transition attempts by entity, target status and outcome.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_status_transitions_total",
		Help: "Status transition attempts by entity, target status and outcome",
	}, []string{"entity", "to", "outcome"})

	// SyncDispatch counts directory tasks handed to the queue.
	SyncDispatch = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_directory_dispatch_total",
		Help: "Directory sync tasks enqueued, by operation and result",
	}, []string{"op", "result"})

	// SyncTasks counts worker outcomes per operation.
	SyncTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_directory_tasks_total",
		Help: "Directory sync tasks processed by the worker, by operation and result",
	}, []string{"op", "result"})

	// DirectoryLatency records directory call latency.
	DirectoryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_directory_call_seconds",
		Help:    "Directory call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)
