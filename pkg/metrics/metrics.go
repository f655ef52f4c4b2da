// Package metrics provides Prometheus metrics for the sorrel service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsTotal tracks enriched documents by outcome (valid, invalid, failed)
	DocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sorrel",
			Subsystem: "enrichment",
			Name:      "documents_total",
			Help:      "Total number of processed documents by outcome",
		},
		[]string{"source", "outcome"},
	)

	// DocumentDuration tracks the enrichment time of one document in seconds
	DocumentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sorrel",
			Subsystem: "enrichment",
			Name:      "document_duration_seconds",
			Help:      "Duration of document enrichment in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	// ReviewItemsTotal tracks items sent to manual review by kind
	ReviewItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sorrel",
			Subsystem: "review",
			Name:      "items_total",
			Help:      "Total number of review items by kind",
		},
		[]string{"kind"},
	)

	// BatchPanicsTotal tracks documents whose processing panicked
	BatchPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sorrel",
			Subsystem: "batch",
			Name:      "panics_total",
			Help:      "Total number of recovered panics while processing documents",
		},
	)

	// BatchInFlight tracks documents currently being processed
	BatchInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sorrel",
			Subsystem: "batch",
			Name:      "documents_in_flight",
			Help:      "Number of documents currently being processed",
		},
	)

	// HTTPRequestsTotal tracks inbound API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sorrel",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// EventsPublishedTotal tracks published document events
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sorrel",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of published document events by type and status",
		},
		[]string{"event_type", "status"},
	)

	// RegistryEntries reports the size of the loaded registry snapshot
	RegistryEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sorrel",
			Subsystem: "registry",
			Name:      "entries",
			Help:      "Number of entries in the loaded registry snapshot",
		},
		[]string{"registry"},
	)
)
