package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

type payloadValidator interface {
	Validate() error
}

// entry registers the request and response payload schemas for one action.
// A nil newRequest marks a void request schema.
type entry struct {
	newRequest  func() payloadValidator
	newResponse func() any
}

// table maps every member of the action enum to exactly one entry.
var table = map[contractx.Action]entry{
	contractx.ActionLogin: {
		newRequest:  func() payloadValidator { return &contractx.LoginPayload{} },
		newResponse: func() any { return &contractx.LoginResponse{} },
	},
	contractx.ActionGetProducts: {
		newResponse: func() any { return &[]contractx.Product{} },
	},
	contractx.ActionGetProduct: {
		newRequest:  func() payloadValidator { return &contractx.GetProductPayload{} },
		newResponse: func() any { return &contractx.Product{} },
	},
	contractx.ActionAddToCart: {
		newRequest:  func() payloadValidator { return &contractx.AddToCartPayload{} },
		newResponse: func() any { return &contractx.Cart{} },
	},
	contractx.ActionRemoveFromCart: {
		newRequest:  func() payloadValidator { return &contractx.RemoveFromCartPayload{} },
		newResponse: func() any { return &contractx.Cart{} },
	},
	contractx.ActionGetCart: {
		newResponse: func() any { return &contractx.Cart{} },
	},
	contractx.ActionCreateCart: {
		newRequest:  func() payloadValidator { return &contractx.CreateCartPayload{} },
		newResponse: func() any { return &contractx.Cart{} },
	},
	contractx.ActionUpdateCart: {
		newRequest:  func() payloadValidator { return &contractx.UpdateCartPayload{} },
		newResponse: func() any { return &contractx.Cart{} },
	},
	contractx.ActionDeleteCart: {
		newRequest:  func() payloadValidator { return &contractx.DeleteCartPayload{} },
		newResponse: func() any { return &contractx.DeleteCartResult{} },
	},
	contractx.ActionGetStoreStats: {
		newResponse: func() any { return &contractx.StoreStats{} },
	},
	contractx.ActionGetAvailableOptions: {
		newResponse: func() any { return &contractx.AvailableOptions{} },
	},
}

// Registered reports whether the action has a dispatch table entry.
func Registered(action contractx.Action) bool {
	_, ok := table[action]
	return ok
}

// ValidateRequest parses and validates a raw inbound request envelope,
// including its payload against the action's registered request schema.
// When the envelope parses but validation fails, the parsed envelope is
// returned alongside the error so callers can echo requestId and action.
func ValidateRequest(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: malformed request envelope: %v", contractx.ErrValidation, err)
	}
	if err := CheckRequest(env); err != nil {
		return env, err
	}
	return env, nil
}

// CheckRequest validates the outer shape of a request envelope, then the
// payload against the registered request schema, rejecting unknown, missing,
// and mistyped fields.
func CheckRequest(env Envelope) error {
	if env.Type != MessageRequest {
		return fmt.Errorf("%w: message type must be %q, got %q", contractx.ErrValidation, MessageRequest, env.Type)
	}
	if strings.TrimSpace(env.RequestID) == "" {
		return fmt.Errorf("%w: requestId is required", contractx.ErrValidation)
	}
	if env.Timestamp <= 0 {
		return fmt.Errorf("%w: timestamp is required", contractx.ErrValidation)
	}
	if _, ok := table[env.Action]; !ok {
		return fmt.Errorf("%w: %q", contractx.ErrUnsupportedAction, env.Action)
	}
	_, err := DecodeRequestPayload(env.Action, env.Payload)
	return err
}

// DecodeRequestPayload decodes a request payload into the action's typed
// payload. Void actions accept only an empty object; nil is returned for
// them. The result is a pointer to the concrete payload type.
func DecodeRequestPayload(action contractx.Action, raw json.RawMessage) (any, error) {
	ent, ok := table[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", contractx.ErrUnsupportedAction, action)
	}

	if ent.newRequest == nil {
		if !isEmptyObject(raw) {
			return nil, fmt.Errorf("%w: action %s takes no payload; send an empty object", contractx.ErrValidation, action)
		}
		return nil, nil
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: action %s requires a payload", contractx.ErrValidation, action)
	}

	payload := ent.newRequest()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(payload); err != nil {
		return nil, fmt.Errorf("%w: invalid payload for action %s: %v", contractx.ErrValidation, action, err)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// CheckResponse validates the outer shape of a response envelope and that
// its payload decodes into the action's registered response schema.
func CheckResponse(env Envelope) error {
	if env.Type != MessageResponse {
		return fmt.Errorf("%w: message type must be %q, got %q", contractx.ErrValidation, MessageResponse, env.Type)
	}
	if strings.TrimSpace(env.RequestID) == "" {
		return fmt.Errorf("%w: requestId is required", contractx.ErrValidation)
	}
	ent, ok := table[env.Action]
	if !ok {
		return fmt.Errorf("%w: %q", contractx.ErrUnsupportedAction, env.Action)
	}
	out := ent.newResponse()
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return fmt.Errorf("%w: invalid response payload for action %s: %v", contractx.ErrValidation, env.Action, err)
	}
	return nil
}

func isEmptyObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return false
	}
	return len(m) == 0
}
