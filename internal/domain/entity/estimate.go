package entity

// Estimate is one estimator's price for a deal.
type Estimate struct {
	Estimator string
	Value     float64
}

// Valuation is the ensemble outcome for a deal: the combined price and the
// estimates it was derived from.
type Valuation struct {
	Price     float64
	Estimates []Estimate
}

func (v Valuation) ByEstimator() map[string]float64 {
	result := make(map[string]float64, len(v.Estimates))
	for _, e := range v.Estimates {
		result[e.Estimator] = e.Value
	}
	return result
}
