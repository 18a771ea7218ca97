package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "countrycat_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// CacheOperations counts cache lookups by outcome (hit|miss) and stores.
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countrycat_cache_operations_total",
			Help: "Total number of page cache operations",
		},
		[]string{"operation", "result"},
	)

	// DatabaseQueries counts gateway operations by kind and outcome.
	DatabaseQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countrycat_database_queries_total",
			Help: "Total number of database gateway operations",
		},
		[]string{"operation", "result"},
	)
)
