package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"deal_scout/pkg/metrics"
)

const (
	resultSent   = "sent"
	resultFailed = "failed"
)

var notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Namespace: metrics.Namespace,
	Name:      "notifications_total",
	Help:      "Deal alerts by channel and delivery result.",
}, []string{"channel", "result"})
