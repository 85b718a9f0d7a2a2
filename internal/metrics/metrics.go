// Package metrics exposes Prometheus instrumentation for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts served responses by status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "irclogd_requests_total",
		Help: "HTTP responses served, by status code.",
	}, []string{"code"})

	// SearchesTotal counts executed search queries.
	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irclogd_searches_total",
		Help: "Search queries executed.",
	})

	// SearchDuration tracks the wall time of a full search pass.
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "irclogd_search_duration_seconds",
		Help:    "Wall time of a full search pass over the log directory.",
		Buckets: prometheus.DefBuckets,
	})
)
