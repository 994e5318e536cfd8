package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noListings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskfacets_listings_total",
		Help: "Product listings rendered, by view",
	}, []string{"view"})
	noSelectedFacets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_selected_facets_total",
		Help: "Facet selections applied to listings",
	})
	engineFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_engine_failures_total",
		Help: "Search engine calls that failed and rendered without facets",
	})
	engineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slaskfacets_engine_duration_seconds",
		Help:    "Search engine call latency",
		Buckets: prometheus.DefBuckets,
	})
)
