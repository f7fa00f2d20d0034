package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

type MessageType string

const (
	MessageRequest  MessageType = "request"
	MessageResponse MessageType = "response"
	MessageError    MessageType = "error"
)

type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Envelope is the uniform wire message wrapping an action and its payload.
// RequestID is unique per logical call and echoed unchanged from request to
// the matching response or error. Timestamp is epoch milliseconds.
type Envelope struct {
	Type      MessageType      `json:"type"`
	Action    contractx.Action `json:"action,omitempty"`
	Payload   json.RawMessage  `json:"payload,omitempty"`
	Error     *ErrorDetail     `json:"error,omitempty"`
	RequestID string           `json:"requestId"`
	Timestamp int64            `json:"timestamp"`
}

var emptyObject = json.RawMessage(`{}`)

// NewRequest builds a request envelope, stamping a fresh id when requestID is
// empty. Void actions always go on the wire with an empty object payload;
// the substitution happens here, at the call boundary, not in the handlers.
func NewRequest(action contractx.Action, payload any, requestID string) (Envelope, error) {
	raw, err := marshalPayload(action, payload)
	if err != nil {
		return Envelope{}, err
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return Envelope{
		Type:      MessageRequest,
		Action:    action,
		Payload:   raw,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// NewResponse builds a response envelope echoing the caller's requestID.
func NewResponse(action contractx.Action, payload any, requestID string) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal response payload for action=%s: %w", action, err)
	}
	return Envelope{
		Type:      MessageResponse,
		Action:    action,
		Payload:   raw,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// NewError builds an error envelope. Action may be empty when the action
// itself could not be identified.
func NewError(message, code, requestID string, action contractx.Action) Envelope {
	return Envelope{
		Type:      MessageError,
		Action:    action,
		Error:     &ErrorDetail{Message: message, Code: code},
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

func marshalPayload(action contractx.Action, payload any) (json.RawMessage, error) {
	if action.Void() || payload == nil {
		return emptyObject, nil
	}
	if raw, ok := payload.(json.RawMessage); ok {
		if len(raw) == 0 {
			return emptyObject, nil
		}
		return raw, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload for action=%s: %w", action, err)
	}
	return raw, nil
}
