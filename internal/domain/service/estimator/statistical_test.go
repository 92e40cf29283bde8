package estimator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain/service/estimator"
)

func TestStatisticalEstimate(t *testing.T) {
	embedder := embedderStub{
		EmbedFunc: func(_ context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{0.1, 0.2, float32(len(texts[0]))}}, nil
		},
	}

	testCases := []struct {
		name       string
		prediction float64
		err        error
		expected   float64
		wantErr    bool
	}{
		{name: "Positive", prediction: 312.5, expected: 312.5},
		{name: "Negative is clamped", prediction: -40, expected: 0},
		{name: "Model failure", err: errors.New("session closed"), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var features []float32

			statistical := estimator.NewStatistical(embedder, regressorStub{
				PredictFunc: func(f []float32) (float64, error) {
					features = f
					return tc.prediction, tc.err
				},
			})

			price, err := statistical.Estimate(context.Background(), "Desk")
			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			rq.InDelta(tc.expected, price, 1e-9)
			rq.Equal([]float32{0.1, 0.2, 4}, features)
		})
	}
}

func TestStatisticalEmbedFailure(t *testing.T) {
	rq := require.New(t)

	statistical := estimator.NewStatistical(embedderStub{
		EmbedFunc: func(context.Context, []string) ([][]float32, error) { return nil, errors.New("429") },
	}, regressorStub{})

	_, err := statistical.Estimate(context.Background(), "Desk")
	rq.Error(err)
}
