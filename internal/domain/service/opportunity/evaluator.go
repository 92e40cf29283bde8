// Package opportunity decides whether a priced deal is worth an alert.
package opportunity

import "deal_scout/internal/domain/entity"

// DefaultThreshold is the minimum discount in dollars.
const DefaultThreshold = 200.0

// Evaluate returns an Opportunity when estimate exceeds the deal price by at
// least threshold, nil otherwise.
func Evaluate(deal entity.Deal, estimate, threshold float64) *entity.Opportunity {
	discount := estimate - deal.Price
	if discount < threshold {
		return nil
	}

	return &entity.Opportunity{
		Deal:     deal,
		Estimate: estimate,
		Discount: discount,
	}
}
