// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinksCreated counts successfully created short links by code origin (alias|generated).
	LinksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlinks_links_created_total",
			Help: "Total number of created short links",
		},
		[]string{"origin"},
	)

	// Resolutions counts resolution requests by outcome (found|not_found|expired|error).
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlinks_resolutions_total",
			Help: "Total number of short code resolutions",
		},
		[]string{"outcome"},
	)

	// CacheLookups counts volatile cache lookups by result (hit|negative|miss).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlinks_cache_lookups_total",
			Help: "Total number of cache lookups during resolution",
		},
		[]string{"result"},
	)

	// CacheErrors counts cache operations that failed and were degraded to a miss or no-op.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortlinks_cache_errors_total",
			Help: "Total number of absorbed cache errors",
		},
		[]string{"op"},
	)

	// StatsUpdateFailures counts access-statistics updates that were dropped.
	StatsUpdateFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shortlinks_stats_update_failures_total",
			Help: "Total number of dropped access-statistics updates",
		},
	)
)
