// Package metrics provides Prometheus metrics for the interactions API:
// HTTP request counters, latency histogram and in-flight gauge, plus
// engine-level counters for analyses and findings and catalog size gauges.
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_total",
			Help: "Total prescription analyses by aggregate severity",
		},
		[]string{"aggregate_severity"},
	)

	FindingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_findings_total",
			Help: "Total interaction findings reported, by kind and severity",
		},
		[]string{"kind", "severity"},
	)

	UnresolvedMentionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unresolved_mentions_total",
			Help: "Total drug mentions that could not be resolved",
		},
	)

	CatalogDrugs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_drugs",
			Help: "Number of drugs in the current catalog snapshot",
		},
	)

	CatalogInteractions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_interactions",
			Help: "Number of interaction records in the current catalog snapshot",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(FindingsTotal)
	prometheus.MustRegister(UnresolvedMentionsTotal)
	prometheus.MustRegister(CatalogDrugs)
	prometheus.MustRegister(CatalogInteractions)
}
