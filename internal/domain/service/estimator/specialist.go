package estimator

import (
	"context"
	"fmt"
	"log/slog"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/value"
	"deal_scout/pkg/errcodes"
)

const specialistPrompt = "How much does this cost to the nearest dollar?\n\n%s\n\nPrice is $"

// Generator continues a raw prompt with a fine-tuned model. Implementations
// must decode deterministically.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Specialist struct {
	model Generator
}

func NewSpecialist(model Generator) *Specialist {
	return &Specialist{model: model}
}

func (*Specialist) Name() string {
	return NameSpecialist
}

func (s *Specialist) Estimate(ctx context.Context, description string) (float64, error) {
	reply, err := s.model.Generate(ctx, fmt.Sprintf(specialistPrompt, description))
	if err != nil {
		return 0, domain.WrapError(err, errcodes.ModelUnavailable, "specialist model")
	}

	price, ok := value.ExtractFirstNumber(reply)
	if !ok {
		logger(ctx).Warn("no price in specialist reply", slog.String("reply", reply))
	}

	return price, nil
}
