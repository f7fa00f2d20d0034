package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

// DefaultSessionID is used when a query arrives without a session id.
const DefaultSessionID = "default"

type GraphInput struct {
	SessionID string
	Query     string
}

// GraphState is threaded through the query pipeline. Each node fills in its
// own fields and passes the state on.
type GraphState struct {
	SessionID string
	Query     string

	History []contractx.Turn
	Plan    contractx.Plan
	Results []contractx.ActionResult

	RawNarration string
	Answer       contractx.StructuredAnswer
}

// EmitFunc receives streaming events as the pipeline produces them. A nil
// EmitFunc means the caller wants the blocking behavior.
type EmitFunc func(contractx.Event) error

func ValidateRequest(in GraphInput) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", contractx.ErrValidation)
	}

	return &GraphState{
		SessionID: sessionID,
		Query:     query,
	}, nil
}
