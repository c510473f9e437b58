package gateway

import "errors"

// Sentinel errors the HTTP layer translates into status codes. Wrapped values
// carry the detail; callers match with errors.Is.
var (
	// ErrInvalidParameter marks a malformed tent id or threshold.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnavailable marks a transport failure that survived the retry budget.
	ErrUnavailable = errors.New("query engine unavailable")
	// ErrQueryFailed marks a job the engine reported as failed or cancelled,
	// or a result set that does not match the endpoint's schema.
	ErrQueryFailed = errors.New("query execution failed")
	// ErrTimeout marks a job that never reached a terminal state within the
	// configured ceiling.
	ErrTimeout = errors.New("query timed out")
)
