package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// result is one of ok, unit_not_found, conversion_failed,
	// invalid_request, non_finite, error.
	conversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mensura_conversions_total",
		Help: "Total conversion queries by result",
	}, []string{"endpoint", "result"})

	conversionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mensura_conversion_duration_seconds",
		Help:    "Conversion query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs to ~80ms
	}, []string{"endpoint"})

	catalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mensura_catalog_reloads_total",
		Help: "Catalog reloads by result",
	}, []string{"result"})

	unitsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mensura_units",
		Help: "Number of units known to the serving converter",
	})
)
