package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ctaridership_queries_total",
			Help: "Total store queries by outcome",
		},
		[]string{"query", "status"},
	)

	QueryLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ctaridership_query_latency_seconds",
			Help:    "Store query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ctaridership_resolutions_total",
			Help: "Name pattern resolutions by entity and outcome",
		},
		[]string{"entity", "outcome"},
	)

	ChartsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ctaridership_charts_rendered_total",
			Help: "Total charts written to disk",
		},
		[]string{"kind"},
	)

	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ctaridership_commands_total",
			Help: "Console commands dispatched",
		},
		[]string{"command"},
	)
)
