package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

// NarrateResults hands the action-result batch back to the model and keeps
// its raw output for parsing.
func NarrateResults(ctx context.Context, in *GraphState, narrator contractx.Narrator) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrInternal)
	}

	raw, err := narrator.Narrate(ctx, contractx.NarrateRequest{
		History: in.History,
		Query:   in.Query,
		Results: in.Results,
	})
	if err != nil {
		return nil, err
	}

	in.RawNarration = raw
	return in, nil
}
