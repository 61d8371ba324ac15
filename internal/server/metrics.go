package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request-level counters exposed on /metrics.
var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siteguard_scans_total",
		Help: "Completed scans, labeled by resulting severity level.",
	}, []string{"level"})

	sanitizesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siteguard_sanitizes_total",
		Help: "Pages rewritten and served through the sandbox.",
	})

	fetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "siteguard_fetch_errors_total",
		Help: "Target fetches that failed before analysis.",
	})
)
