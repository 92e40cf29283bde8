package server

import (
	"deal_scout/internal/domain/entity"
	"deal_scout/internal/domain/service/planner"
	"deal_scout/pkg/lox"
	"deal_scout/pkg/rest"
)

func newRESTOpportunity(o entity.Opportunity) rest.Opportunity {
	return rest.Opportunity{
		Deal: rest.Deal{
			Description: o.Deal.Description,
			Price:       o.Deal.Price,
			URL:         o.Deal.URL,
		},
		Estimate: o.Estimate,
		Discount: o.Discount,
	}
}

// NewRESTOpportunities converts opportunities to their wire form.
func NewRESTOpportunities(opportunities []entity.Opportunity) []rest.Opportunity {
	return lox.Map(opportunities, newRESTOpportunity)
}

func newRESTRunStats(stats planner.RunStats) *rest.RunStats {
	out := &rest.RunStats{
		TraceID:       stats.TraceID,
		StartedAt:     stats.StartedAt,
		DurationMs:    stats.Duration.Milliseconds(),
		Candidates:    stats.Candidates,
		Deals:         stats.Deals,
		Skipped:       stats.Skipped,
		Opportunities: stats.Opportunities,
	}

	if stats.Err != nil {
		out.Error = stats.Err.Error()
	}

	return out
}
