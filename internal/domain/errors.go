package domain

import "errors"

// Sentinel errors shared across services, repositories and handlers.
var (
	ErrNotFound         = errors.New("not found")
	ErrDateUnavailable  = errors.New("date unavailable")
	ErrFlowClosed       = errors.New("booking flow is closed")
	ErrSubmitNotAllowed = errors.New("submit is only allowed from the contact info step")
	ErrStepIncomplete   = errors.New("current step has invalid fields")
	ErrInvalidWeights   = errors.New("availability weights must be non-negative and sum to 1")
	ErrInvalidDate      = errors.New("invalid date")
)
