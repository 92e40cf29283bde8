// Package estimator prices deal descriptions with several independent models
// and combines their answers into one estimate.
package estimator

import (
	"context"

	"deal_scout/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	NameFrontier    = "frontier"
	NameSpecialist  = "specialist"
	NameStatistical = "statistical"
)

type Estimator interface {
	Name() string
	Estimate(ctx context.Context, description string) (float64, error)
}
