package estimator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain/service/estimator"
)

func TestMeanCombiner(t *testing.T) {
	combiner := estimator.NewMeanCombiner()

	testCases := []struct {
		name      string
		estimates map[string]float64
		expected  float64
	}{
		{
			name:      "Zero is excluded",
			estimates: map[string]float64{"frontier": 150, "specialist": 0, "statistical": 200},
			expected:  175,
		},
		{
			name:      "All valid",
			estimates: map[string]float64{"frontier": 800, "specialist": 780, "statistical": 820},
			expected:  800,
		},
		{
			name:      "Above ceiling is excluded",
			estimates: map[string]float64{"frontier": 50000, "specialist": 300},
			expected:  300,
		},
		{
			name:      "Negative and NaN are excluded",
			estimates: map[string]float64{"frontier": -5, "specialist": math.NaN(), "statistical": 90},
			expected:  90,
		},
		{
			name:      "Nothing valid falls back to default",
			estimates: map[string]float64{"frontier": 0, "specialist": 0},
			expected:  100,
		},
		{
			name:      "Empty falls back to default",
			estimates: nil,
			expected:  100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			rq.InDelta(tc.expected, combiner.Combine(tc.estimates), 1e-9)
		})
	}
}

func TestLinearCombiner(t *testing.T) {
	combiner := estimator.NewLinearCombiner(estimator.LinearWeights{
		Frontier:    0.5,
		Specialist:  0.3,
		Statistical: 0.1,
		Min:         0.05,
		Max:         0.05,
		Intercept:   10,
	})

	testCases := []struct {
		name      string
		estimates map[string]float64
		expected  float64
	}{
		{
			name:      "All estimates present",
			estimates: map[string]float64{"frontier": 100, "specialist": 200, "statistical": 300},
			// 10 + 50 + 60 + 30 + 5 + 15
			expected: 170,
		},
		{
			name:      "Missing estimate degrades to mean",
			estimates: map[string]float64{"frontier": 100, "statistical": 300},
			expected:  200,
		},
		{
			name:      "Invalid estimate degrades to mean",
			estimates: map[string]float64{"frontier": 150, "specialist": 0, "statistical": 200},
			expected:  175,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			rq.InDelta(tc.expected, combiner.Combine(tc.estimates), 1e-9)
		})
	}
}

func TestLinearCombinerNonPositiveOutput(t *testing.T) {
	rq := require.New(t)

	combiner := estimator.NewLinearCombiner(estimator.LinearWeights{Intercept: -1000, Frontier: 1})

	got := combiner.Combine(map[string]float64{"frontier": 100, "specialist": 200, "statistical": 300})
	rq.InDelta(200.0, got, 1e-9)
}

func TestLinearCombinerWithFallback(t *testing.T) {
	rq := require.New(t)

	combiner := estimator.NewLinearCombiner(estimator.LinearWeights{Frontier: 1}).
		WithFallback(estimator.MeanCombiner{Ceiling: 500, Default: 42})

	got := combiner.Combine(map[string]float64{"frontier": 900})
	rq.InDelta(42.0, got, 1e-9)
}
