package contract

import (
	"errors"
	"net/http"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrCart              = errors.New("cart store failure")
	ErrUpstream          = errors.New("upstream api failure")
	ErrPlanParse         = errors.New("action plan violates the fenced json contract")
	ErrNarrationParse    = errors.New("narration violates the fenced json contract")
	ErrUnsupportedAction = errors.New("unsupported action")
	ErrInternal          = errors.New("internal error")
)

// Wire error codes carried by error envelopes.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeCart              = "CART_ERROR"
	CodeUpstream          = "API_ERROR"
	CodePlanParse         = "PLAN_PARSE_ERROR"
	CodeNarrationParse    = "NARRATION_PARSE_ERROR"
	CodeUnsupportedAction = "UNSUPPORTED_ACTION"
	CodeInternal          = "INTERNAL_ERROR"
)

// CodeOf classifies an error chain into its wire code. Unknown errors are
// reported as INTERNAL_ERROR.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrCart):
		return CodeCart
	case errors.Is(err, ErrUpstream):
		return CodeUpstream
	case errors.Is(err, ErrPlanParse):
		return CodePlanParse
	case errors.Is(err, ErrNarrationParse):
		return CodeNarrationParse
	case errors.Is(err, ErrUnsupportedAction):
		return CodeUnsupportedAction
	default:
		return CodeInternal
	}
}

// HTTPStatusOf maps a wire code to the status the HTTP edge responds with.
func HTTPStatusOf(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrFromCode converts a wire code received in an error envelope back into
// the matching sentinel, so callers can classify with errors.Is.
func ErrFromCode(code string) error {
	switch code {
	case CodeValidation:
		return ErrValidation
	case CodeNotFound:
		return ErrNotFound
	case CodeUnauthorized:
		return ErrUnauthorized
	case CodeCart:
		return ErrCart
	case CodeUpstream:
		return ErrUpstream
	case CodePlanParse:
		return ErrPlanParse
	case CodeNarrationParse:
		return ErrNarrationParse
	case CodeUnsupportedAction:
		return ErrUnsupportedAction
	default:
		return ErrInternal
	}
}
