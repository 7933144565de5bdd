package request

import "errors"

// Error taxonomy of the dispatch engine. Handlers map these to HTTP
// statuses with errors.Is; storage failures are the only class that wraps
// through untouched.
var (
	// ErrInvalidInput signals malformed or out-of-range request parameters.
	ErrInvalidInput = errors.New("invalid request input")
	// ErrNotFound signals an unknown request id.
	ErrNotFound = errors.New("service request not found")
	// ErrInvalidTransition signals a lifecycle guard failure: wrong actor,
	// wrong current state, or target unreachable from the current state.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyAccepted signals a lost accept race. Callers should treat
	// it as informational and refresh their available list.
	ErrAlreadyAccepted = errors.New("service request already accepted")
	// ErrNotEligible signals a rating attempt on a request that is not
	// completed or not owned by the rater.
	ErrNotEligible = errors.New("request not eligible for rating")
	// ErrAlreadyRated signals that this side's rating was already written.
	ErrAlreadyRated = errors.New("request already rated by this side")
)
