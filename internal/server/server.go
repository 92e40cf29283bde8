package server

import (
	"context"

	"deal_scout/internal/domain/entity"
	"deal_scout/internal/domain/service/planner"
)

type plannerService interface {
	RunOnce(ctx context.Context) ([]entity.Opportunity, error)
	Opportunities(ctx context.Context, limit int) ([]entity.Opportunity, error)
	State() planner.State
	Threshold() float64
	SetThreshold(threshold float64)
	LastRun() (planner.RunStats, bool)
}

type scanTrigger interface {
	Trigger(ctx context.Context) (string, error)
}

// Server объединяет обработчики HTTP API поверх планировщика.
type Server struct {
	planner plannerService
	trigger scanTrigger
}

func NewServer(
	planner plannerService,
	trigger scanTrigger,
) Server {
	return Server{
		planner: planner,
		trigger: trigger,
	}
}
