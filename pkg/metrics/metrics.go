package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shotbuilder", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shotbuilder", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	WatchesOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shotbuilder", Name: "watches_opened_total", Help: "Number of live document watches opened by collection."},
		[]string{"collection"},
	)
	WatchesClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shotbuilder", Name: "watches_closed_total", Help: "Number of live document watches torn down by collection."},
		[]string{"collection"},
	)
	WritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shotbuilder", Name: "writes_total", Help: "Number of document writes by collection and outcome."},
		[]string{"collection", "outcome"},
	)
	ExportItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shotbuilder", Name: "export_items_total", Help: "Number of export image items processed by outcome."},
		[]string{"outcome"},
	)
	ExportBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "shotbuilder", Name: "export_batches_total", Help: "Number of export batches by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(WatchesOpened)
	reg.MustRegister(WatchesClosed)
	reg.MustRegister(WritesTotal)
	reg.MustRegister(ExportItems)
	reg.MustRegister(ExportBatches)
}
