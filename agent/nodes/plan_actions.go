package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

// PlanActions asks the planner for the ordered action sequence answering the
// query. Unknown actions in the plan abort the query before anything runs.
func PlanActions(ctx context.Context, in *GraphState, planner contractx.Planner) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrInternal)
	}

	plan, err := planner.Plan(ctx, contractx.PlanRequest{
		History: in.History,
		Query:   in.Query,
	})
	if err != nil {
		return nil, err
	}

	for _, planned := range plan.Actions {
		if !planned.Action.Valid() {
			return nil, fmt.Errorf("%w: planned action %q is not supported", contractx.ErrPlanParse, planned.Action)
		}
	}

	log.Debug().
		Str("session_id", in.SessionID).
		Int("actions", len(plan.Actions)).
		Str("thoughts", plan.Thoughts).
		Msg("plan ready")

	in.Plan = plan
	return in, nil
}
