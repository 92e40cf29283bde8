package estimator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"deal_scout/pkg/metrics"
)

//nolint:gochecknoglobals
var (
	estimatorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Name:      "estimator_failures_total",
		Help:      "Estimator calls that produced no value.",
	}, []string{"estimator"})

	estimatorFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Name:      "estimator_fallbacks_total",
		Help:      "Estimates answered by a heuristic instead of the model.",
	}, []string{"estimator"})

	estimateValues = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Name:      "estimate_value_dollars",
		Help:      "Estimated prices per estimator.",
		Buckets:   prometheus.ExponentialBuckets(10, 2, 11),
	}, []string{"estimator"})
)
