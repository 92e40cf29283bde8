package estimator

import (
	"context"
	"fmt"
	"log/slog"

	"deal_scout/internal/domain/entity"
	"deal_scout/pkg/logx"
)

// Ensemble runs every estimator in turn and combines whatever they produced.
// A failing estimator is logged and left out.
type Ensemble struct {
	estimators []Estimator
	combiner   Combiner
}

func NewEnsemble(combiner Combiner, estimators ...Estimator) *Ensemble {
	return &Ensemble{
		estimators: estimators,
		combiner:   combiner,
	}
}

func (e *Ensemble) Price(ctx context.Context, description string) (entity.Valuation, error) {
	estimates := make(map[string]float64, len(e.estimators))
	valuation := entity.Valuation{
		Estimates: make([]entity.Estimate, 0, len(e.estimators)),
	}

	for _, est := range e.estimators {
		if err := ctx.Err(); err != nil {
			return entity.Valuation{}, fmt.Errorf("ensemble.Price: %w", err)
		}

		v, err := est.Estimate(ctx, description)
		if err != nil {
			estimatorFailures.WithLabelValues(est.Name()).Inc()
			logger(ctx).Warn(
				"estimator failed",
				slog.String(logx.FieldEstimator, est.Name()),
				logx.Error(err),
			)
			continue
		}

		estimateValues.WithLabelValues(est.Name()).Observe(v)
		estimates[est.Name()] = v
		valuation.Estimates = append(valuation.Estimates, entity.Estimate{Estimator: est.Name(), Value: v})
	}

	valuation.Price = e.combiner.Combine(estimates)

	logger(ctx).Info(
		"deal priced",
		slog.Float64("estimate", valuation.Price),
		slog.Any("estimates", estimates),
	)

	return valuation, nil
}
