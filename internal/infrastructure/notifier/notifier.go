// Package notifier delivers deal alerts over every configured channel.
package notifier

import (
	"context"
	"log/slog"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/logx"
	"deal_scout/pkg/retry"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Sender interface {
	Channel() string
	Send(ctx context.Context, msg Message) error
}

// Dispatcher sends every alert to all senders. Delivery is best effort: a
// failing channel is logged and counted, never reported to the caller.
type Dispatcher struct {
	senders []Sender
	policy  retry.Policy
}

func NewDispatcher(senders ...Sender) *Dispatcher {
	return &Dispatcher{
		senders: senders,
		policy:  retry.Once,
	}
}

func (d *Dispatcher) WithRetry(p retry.Policy) *Dispatcher {
	d.policy = p
	return d
}

func (d *Dispatcher) Channels() []string {
	channels := make([]string, 0, len(d.senders))
	for _, s := range d.senders {
		channels = append(channels, s.Channel())
	}
	return channels
}

func (d *Dispatcher) Notify(ctx context.Context, opportunity entity.Opportunity) {
	msg := NewMessage(opportunity)

	for _, s := range d.senders {
		err := retry.Do(ctx, d.policy, "notify "+s.Channel(), func() error {
			return s.Send(ctx, msg)
		})
		if err != nil {
			notificationsTotal.WithLabelValues(s.Channel(), resultFailed).Inc()
			logger(ctx).Error("notification failed",
				slog.String(logx.FieldChannel, s.Channel()),
				slog.String(logx.FieldDealURL, opportunity.Deal.URL),
				logx.Error(domain.WrapError(err, errcodes.NotificationFailed, "send alert")),
			)

			continue
		}

		notificationsTotal.WithLabelValues(s.Channel(), resultSent).Inc()
	}
}
