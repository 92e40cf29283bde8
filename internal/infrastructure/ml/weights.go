package ml

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"deal_scout/internal/domain/service/estimator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// LoadLinearWeights reads combiner coefficients from a JSON file such as
//
//	{"frontier":0.41,"specialist":0.37,"statistical":0.12,"min":0.05,"max":0.02,"intercept":3.1}
func LoadLinearWeights(path string) (estimator.LinearWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return estimator.LinearWeights{}, fmt.Errorf("os.ReadFile: %w", err)
	}

	var w estimator.LinearWeights
	if err = json.Unmarshal(data, &w); err != nil {
		return estimator.LinearWeights{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return w, nil
}
