package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	statex "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/state"
)

// AppendAssistantTurn records the final answer text in the session history.
// It runs only on the success path, so failed queries never pollute the
// conversation the model sees next time.
func AppendAssistantTurn(in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrInternal)
	}

	store.Append(in.SessionID, contractx.Turn{
		Role:    contractx.RoleAssistant,
		Content: in.Answer.Text,
	})
	return in, nil
}

func FinalizeAnswer(in *GraphState) (contractx.QueryResult, error) {
	if in == nil {
		return contractx.QueryResult{}, fmt.Errorf("%w: graph state is nil", contractx.ErrInternal)
	}

	return contractx.QueryResult{
		Query:              in.Query,
		Plan:               in.Plan,
		Actions:            in.Results,
		Response:           in.Answer.Text,
		StructuredResponse: in.Answer,
	}, nil
}
