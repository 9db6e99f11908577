package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arbot",
		Subsystem: "scanner",
		Name:      "scans_total",
		Help:      "Total number of completed multi-venue scans",
	})

	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "arbot",
		Subsystem: "scanner",
		Name:      "scan_duration_seconds",
		Help:      "Wall time of one fetch-and-scan cycle",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	opportunitiesFound = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arbot",
		Subsystem: "scanner",
		Name:      "opportunities_total",
		Help:      "Total number of opportunities above the profit threshold",
	})

	snapshotErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "arbot",
		Subsystem: "scanner",
		Name:      "snapshot_errors_total",
		Help:      "Total number of failed price snapshots",
	})

	venuesTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "arbot",
		Subsystem: "scanner",
		Name:      "venues_tracked",
		Help:      "Venue count in the most recent snapshot",
	})
)
