package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	protocolx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/protocol"
)

// Executor is the in-process action invoker the orchestrator plans against.
// It builds a request envelope (normalizing void-action payloads to an empty
// object), validates it, dispatches through the gateway, and validates the
// response before handing back its payload.
type Executor struct {
	gw *Gateway
}

func NewExecutor(gw *Gateway) *Executor {
	return &Executor{gw: gw}
}

var _ contractx.Executor = (*Executor)(nil)

func (e *Executor) Execute(ctx context.Context, action contractx.Action, payload json.RawMessage) (json.RawMessage, error) {
	req, err := protocolx.NewRequest(action, payload, "")
	if err != nil {
		return nil, fmt.Errorf("%w: build request for action %s: %v", contractx.ErrValidation, action, err)
	}
	if err := protocolx.CheckRequest(req); err != nil {
		return nil, err
	}

	resp := e.gw.Handle(ctx, req)
	if resp.RequestID != req.RequestID {
		return nil, fmt.Errorf("%w: response id %q does not match request id %q", contractx.ErrInternal, resp.RequestID, req.RequestID)
	}
	if resp.Type == protocolx.MessageError {
		detail := resp.Error
		if detail == nil {
			return nil, fmt.Errorf("%w: error envelope without detail", contractx.ErrInternal)
		}
		return nil, fmt.Errorf("%w: %s", contractx.ErrFromCode(detail.Code), detail.Message)
	}
	if err := protocolx.CheckResponse(resp); err != nil {
		return nil, err
	}
	return resp.Payload, nil
}
