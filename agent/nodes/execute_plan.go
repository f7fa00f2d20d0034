package orchestratornode

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

// ExecutePlan runs every planned action in order through the gateway. A
// failed action is recorded and does not stop the rest of the plan. When
// emit is non-nil each result is published as it lands, failures as error
// events.
func ExecutePlan(ctx context.Context, in *GraphState, exec contractx.Executor, emit EmitFunc) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrInternal)
	}

	results := make([]contractx.ActionResult, 0, len(in.Plan.Actions))
	for _, planned := range in.Plan.Actions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := contractx.ActionResult{Action: planned.Action}
		payload, err := exec.Execute(ctx, planned.Action, planned.Payload)
		if err != nil {
			res.Error = err.Error()
			log.Warn().
				Err(err).
				Str("session_id", in.SessionID).
				Str("action", string(planned.Action)).
				Msg("action failed")
		} else {
			var decoded any
			if err := json.Unmarshal(payload, &decoded); err != nil {
				res.Error = fmt.Sprintf("decode %s response: %v", planned.Action, err)
			} else {
				res.Result = decoded
			}
		}
		results = append(results, res)

		if emit != nil {
			name := contractx.EventAction
			if res.Error != "" {
				name = contractx.EventError
			}
			if err := emit(contractx.Event{Name: name, Data: res}); err != nil {
				return nil, err
			}
		}
	}

	in.Results = results
	return in, nil
}
