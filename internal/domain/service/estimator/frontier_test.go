package estimator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/service/estimator"
	"deal_scout/internal/domain/value"
	"deal_scout/pkg/errcodes"
)

var errQuota = errors.New("insufficient quota")

func neighbours() indexStub {
	return indexStub{
		FindSimilarFunc: func(_ context.Context, _ string, k int) ([]string, []float64, error) {
			docs := []string{"Laptop A", "Laptop B", "Laptop C", "Laptop D", "Laptop E"}
			prices := []float64{500, 900, 700, 1100, 300}
			return docs[:k], prices[:k], nil
		},
	}
}

func TestFrontierEstimate(t *testing.T) {
	testCases := []struct {
		name     string
		reply    string
		err      error
		expected float64
	}{
		{name: "Price reply", reply: "849.99", expected: 849.99},
		{name: "Reply with separators", reply: "$1,049", expected: 1049},
		{name: "No number", reply: "I am not sure", expected: 0},
		{name: "Model failure falls back to neighbour median", err: errQuota, expected: 700},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var captured value.Prompt

			frontier := estimator.NewFrontier(neighbours(), completerStub{
				CompleteFunc: func(_ context.Context, p value.Prompt) (string, error) {
					captured = p
					return tc.reply, tc.err
				},
			})

			price, err := frontier.Estimate(context.Background(), "Refurbished 16GB RAM laptop")
			rq.NoError(err)
			rq.InDelta(tc.expected, price, 1e-9)

			rq.Equal("Price is $", captured.Prefill)
			rq.EqualValues(42, captured.Seed)
			rq.EqualValues(5, captured.MaxTokens)
			rq.Contains(captured.User, "Potentially related product:\nLaptop B\nPrice is $900.00")
			rq.Contains(captured.User, "Refurbished 16GB RAM laptop")
		})
	}
}

func TestFrontierNeighbours(t *testing.T) {
	rq := require.New(t)

	var requested int

	index := indexStub{
		FindSimilarFunc: func(_ context.Context, _ string, k int) ([]string, []float64, error) {
			requested = k
			return nil, nil, nil
		},
	}

	frontier := estimator.NewFrontier(index, completerStub{
		CompleteFunc: func(context.Context, value.Prompt) (string, error) { return "", errQuota },
	}).WithNeighbours(3)

	price, err := frontier.Estimate(context.Background(), "Mouse")
	rq.NoError(err)
	rq.Equal(3, requested)
	rq.InDelta(0.0, price, 1e-9)
}

func TestFrontierIndexFailure(t *testing.T) {
	rq := require.New(t)

	index := indexStub{
		FindSimilarFunc: func(context.Context, string, int) ([]string, []float64, error) {
			return nil, nil, errors.New("connection refused")
		},
	}

	frontier := estimator.NewFrontier(index, completerStub{})

	_, err := frontier.Estimate(context.Background(), "Mouse")
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.IndexUnavailable))
}

func TestFrontierCanceled(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())

	frontier := estimator.NewFrontier(neighbours(), completerStub{
		CompleteFunc: func(ctx context.Context, _ value.Prompt) (string, error) {
			cancel()
			return "", ctx.Err()
		},
	})

	_, err := frontier.Estimate(ctx, "Mouse")
	rq.ErrorIs(err, context.Canceled)
}

func TestMedian(t *testing.T) {
	rq := require.New(t)

	rq.InDelta(0.0, estimator.Median(nil), 1e-9)
	rq.InDelta(3.0, estimator.Median([]float64{5, 1, 3}), 1e-9)
	rq.InDelta(2.5, estimator.Median([]float64{4, 1, 3, 2}), 1e-9)
}
