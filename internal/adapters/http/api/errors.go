package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrPanic = errors.New("handler panicked")
)

// Client-facing messages produced by the middleware chain.
const (
	msgTooManyRequests = "Too many requests"
	msgInternal        = "Internal server error"
)
