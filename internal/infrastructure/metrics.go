package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics, exposed on /metrics by the dashboard server.
var (
	RowsRead = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stocklens",
		Name:      "rows_read_total",
		Help:      "Rows read by each pipeline stage.",
	}, []string{"stage"})

	RowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stocklens",
		Name:      "rows_written_total",
		Help:      "Rows written by each pipeline stage.",
	}, []string{"stage"})

	DuplicatesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stocklens",
		Name:      "duplicates_removed_total",
		Help:      "Exact-duplicate rows removed by the consolidator.",
	})

	CellsFilled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stocklens",
		Name:      "cells_forward_filled_total",
		Help:      "Missing cells forward-filled by the cleaner.",
	})

	RowsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stocklens",
		Name:      "rows_dropped_total",
		Help:      "Rows dropped by the cleaner for lacking a ticker or close.",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stocklens",
		Name:      "stage_duration_seconds",
		Help:      "Wall time of each pipeline stage.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})
)
