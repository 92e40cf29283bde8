package estimator

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

const (
	DefaultCeiling = 10000.0
	DefaultPrice   = 100.0
)

// Combiner merges estimates keyed by estimator name. It never fails.
type Combiner interface {
	Combine(estimates map[string]float64) float64
}

// MeanCombiner averages the estimates in (0, Ceiling) and answers Default when
// none is usable.
type MeanCombiner struct {
	Ceiling float64
	Default float64
}

func NewMeanCombiner() MeanCombiner {
	return MeanCombiner{
		Ceiling: DefaultCeiling,
		Default: DefaultPrice,
	}
}

func (c MeanCombiner) Valid(estimate float64) bool {
	return estimate > 0 && estimate < c.Ceiling && !math.IsNaN(estimate)
}

func (c MeanCombiner) Combine(estimates map[string]float64) float64 {
	names := lo.Keys(estimates)
	slices.Sort(names)

	var (
		sum   float64
		count int
	)

	for _, name := range names {
		if v := estimates[name]; c.Valid(v) {
			sum += v
			count++
		}
	}

	if count == 0 {
		return c.Default
	}

	return sum / float64(count)
}

// LinearWeights are the coefficients of a linear model trained offline on
// (frontier, specialist, statistical, min, max) -> price.
type LinearWeights struct {
	Frontier    float64 `json:"frontier"`
	Specialist  float64 `json:"specialist"`
	Statistical float64 `json:"statistical"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Intercept   float64 `json:"intercept"`
}

// LinearCombiner applies LinearWeights when all three estimates are valid and
// degrades to the mean otherwise.
type LinearCombiner struct {
	weights  LinearWeights
	fallback MeanCombiner
}

func NewLinearCombiner(weights LinearWeights) LinearCombiner {
	return LinearCombiner{
		weights:  weights,
		fallback: NewMeanCombiner(),
	}
}

// WithFallback replaces the mean used when the linear model cannot answer.
func (c LinearCombiner) WithFallback(fallback MeanCombiner) LinearCombiner {
	c.fallback = fallback
	return c
}

func (c LinearCombiner) Combine(estimates map[string]float64) float64 {
	frontier, okF := estimates[NameFrontier]
	specialist, okS := estimates[NameSpecialist]
	statistical, okR := estimates[NameStatistical]

	if !okF || !okS || !okR ||
		!c.fallback.Valid(frontier) || !c.fallback.Valid(specialist) || !c.fallback.Valid(statistical) {
		return c.fallback.Combine(estimates)
	}

	w := c.weights
	result := w.Intercept +
		w.Frontier*frontier +
		w.Specialist*specialist +
		w.Statistical*statistical +
		w.Min*min(frontier, specialist, statistical) +
		w.Max*max(frontier, specialist, statistical)

	if math.IsNaN(result) || result <= 0 {
		return c.fallback.Combine(estimates)
	}

	return result
}
