package estimator

import (
	"context"
	"fmt"

	"deal_scout/internal/domain"
	"deal_scout/pkg/errcodes"
)

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type Regressor interface {
	Predict(features []float32) (float64, error)
}

// Statistical runs a pre-trained regression model over the description
// embedding.
type Statistical struct {
	embedder Embedder
	model    Regressor
}

func NewStatistical(embedder Embedder, model Regressor) *Statistical {
	return &Statistical{
		embedder: embedder,
		model:    model,
	}
}

func (*Statistical) Name() string {
	return NameStatistical
}

func (s *Statistical) Estimate(ctx context.Context, description string) (float64, error) {
	vectors, err := s.embedder.Embed(ctx, []string{description})
	if err != nil {
		return 0, fmt.Errorf("embedder.Embed: %w", err)
	}

	if len(vectors) != 1 {
		return 0, domain.NewError(errcodes.MalformedResponse, fmt.Sprintf("expected 1 embedding, got %d", len(vectors)))
	}

	prediction, err := s.model.Predict(vectors[0])
	if err != nil {
		return 0, domain.WrapError(err, errcodes.ModelUnavailable, "statistical model")
	}

	return max(0, prediction), nil
}
