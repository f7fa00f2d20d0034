package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	statex "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/state"
)

// AppendUserTurn records the user's query in the session history. A fresh
// session is seeded with the system turns first, so the model always sees
// its persona and capabilities at the head of the conversation.
func AppendUserTurn(in *GraphState, store statex.Store, seed []contractx.Turn) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrInternal)
	}

	if len(store.Turns(in.SessionID)) == 0 {
		store.Append(in.SessionID, seed...)
	}
	store.Append(in.SessionID, contractx.Turn{
		Role:    contractx.RoleUser,
		Content: in.Query,
	})

	in.History = store.Turns(in.SessionID)
	return in, nil
}
