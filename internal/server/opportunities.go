package server

import (
	"fmt"
	"net/http"

	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/httpx/reply"
	"deal_scout/pkg/httpx/req"
	"deal_scout/pkg/rest"
)

const (
	defaultLimit = 20
	maxLimit     = 500
)

func (s Server) getV1Opportunities(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, err := req.QueryInt(r, "limit", defaultLimit, maxLimit, errcodes.InvalidPaging)
	if err != nil {
		return fmt.Errorf("req.QueryInt: %w", err)
	}

	opportunities, err := s.planner.Opportunities(ctx, limit)
	if err != nil {
		return fmt.Errorf("planner.Opportunities: %w", err)
	}

	items := NewRESTOpportunities(opportunities)

	reply.JSON(ctx, w, http.StatusOK, rest.OpportunityList{
		Items: items,
		Count: len(items),
	})

	return nil
}

func (s Server) getV1Status(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	status := rest.Status{
		State:     s.planner.State().String(),
		Threshold: s.planner.Threshold(),
	}

	if stats, ok := s.planner.LastRun(); ok {
		status.LastRun = newRESTRunStats(stats)
	}

	reply.JSON(ctx, w, http.StatusOK, status)

	return nil
}

func (s Server) putV1Threshold(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.Threshold

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	s.planner.SetThreshold(request.Value)

	reply.JSON(ctx, w, http.StatusOK, request)

	return nil
}

// postV1Scans runs a pass and returns what it found. With ?async=true the
// pass is handed to the worker and only its task id is returned.
func (s Server) postV1Scans(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if req.QueryBool(r, "async") {
		taskID, err := s.trigger.Trigger(ctx)
		if err != nil {
			return fmt.Errorf("trigger.Trigger: %w", err)
		}

		reply.JSON(ctx, w, http.StatusAccepted, rest.ScanResult{
			TaskID:        taskID,
			Opportunities: []rest.Opportunity{},
		})

		return nil
	}

	found, err := s.planner.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("planner.RunOnce: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ScanResult{
		Opportunities: NewRESTOpportunities(found),
	})

	return nil
}
