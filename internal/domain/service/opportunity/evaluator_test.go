package opportunity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain/entity"
	"deal_scout/internal/domain/service/opportunity"
)

func TestEvaluate(t *testing.T) {
	deal := entity.NewDeal("Refurbished 16GB RAM laptop", 650, "http://x/1")

	testCases := []struct {
		name      string
		estimate  float64
		threshold float64
		discount  float64
		found     bool
	}{
		{name: "Below threshold", estimate: 800, threshold: 200},
		{name: "Exactly threshold", estimate: 850, threshold: 200, discount: 200, found: true},
		{name: "Above threshold", estimate: 900, threshold: 200, discount: 250, found: true},
		{name: "Overpriced", estimate: 500, threshold: 0},
		{name: "Zero threshold accepts break even", estimate: 650, threshold: 0, discount: 0, found: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			opp := opportunity.Evaluate(deal, tc.estimate, tc.threshold)
			if !tc.found {
				rq.Nil(opp)
				return
			}

			rq.NotNil(opp)
			rq.Equal(deal, opp.Deal)
			rq.InDelta(tc.estimate, opp.Estimate, 1e-9)
			rq.InDelta(tc.discount, opp.Discount, 1e-9)
			rq.GreaterOrEqual(opp.Discount, tc.threshold)
			rq.InDelta(opp.Estimate-opp.Deal.Price, opp.Discount, 1e-9)
		})
	}
}
