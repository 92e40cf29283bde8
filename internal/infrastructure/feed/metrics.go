package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"deal_scout/pkg/metrics"
)

var feedFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Namespace: metrics.Namespace,
	Name:      "feed_failures_total",
	Help:      "Feeds that could not be read or parsed.",
}, []string{"feed"})
