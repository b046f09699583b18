package service

import (
	"errors"
)

// Error kinds returned by Dispatch. The HTTP layer maps ErrInvalidInput to
// 400 and everything else to 500.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrFailed       = errors.New("operation failed")
)

// Messages for computations stopped by their context.
const (
	MsgTimedOut  = "Operation timed out"
	MsgCancelled = "Operation cancelled"
)

// Error is returned by Dispatch. Message is safe to show to the client.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool { return e.Kind == target }
