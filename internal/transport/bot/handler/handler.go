package handler

import (
	"context"

	"deal_scout/internal/domain/entity"
	"deal_scout/internal/domain/service/planner"
	"deal_scout/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals // skip

const recentPageSize = 5

type plannerService interface {
	Opportunities(ctx context.Context, limit int) ([]entity.Opportunity, error)
	State() planner.State
	Threshold() float64
	SetThreshold(threshold float64)
	LastRun() (planner.RunStats, bool)
}

type scanTrigger interface {
	Trigger(ctx context.Context) (string, error)
}

type Handler struct {
	planner plannerService
	trigger scanTrigger
}

func New(planner plannerService, trigger scanTrigger) *Handler {
	return &Handler{
		planner: planner,
		trigger: trigger,
	}
}
