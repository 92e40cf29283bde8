package planner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"deal_scout/pkg/metrics"
)

const (
	resultOK      = "ok"
	resultEmpty   = "empty"
	resultFailed  = "failed"
	resultUnsaved = "unsaved"
)

//nolint:gochecknoglobals
var (
	passesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Name:      "passes_total",
		Help:      "Scan passes by result.",
	}, []string{"result"})

	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Name:      "pass_duration_seconds",
		Help:      "Duration of a scan pass.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	candidatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Name:      "candidates_total",
		Help:      "Candidates fetched from feeds.",
	})

	dealsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Name:      "deals_total",
		Help:      "Deals processed by outcome.",
	}, []string{"outcome"})

	memorySize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metrics.Namespace,
		Name:      "memory_opportunities",
		Help:      "Opportunities stored in memory.",
	})
)
