package notifier

import (
	"context"
	"log/slog"

	"deal_scout/pkg/logx"
)

// Log writes alerts to the structured log. It is the fallback channel when
// no other is configured.
type Log struct{}

func (Log) Channel() string {
	return "log"
}

func (Log) Send(ctx context.Context, msg Message) error {
	logger(ctx).Info(msg.Text,
		slog.String(logx.FieldDealURL, msg.Opportunity.Deal.URL),
		slog.Float64("discount", msg.Opportunity.Discount),
	)
	return nil
}
