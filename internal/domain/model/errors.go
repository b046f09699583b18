package model

import "errors"

// Sentinel kinds for request validation. ValidationError unwraps to one
// of these.
var (
	// ErrMalformed marks a body that is not valid JSON.
	ErrMalformed = errors.New("malformed request")
	// ErrShape marks key cardinality, key name and fibonacci/prime value
	// violations.
	ErrShape = errors.New("invalid request shape")
	// ErrArgument marks lcm, hcf and AI value violations.
	ErrArgument = errors.New("invalid operation argument")
)

// Client-facing validation messages.
const (
	MsgInvalidJSON      = "Invalid JSON body"
	MsgExactlyOneKey    = "Exactly one key is required"
	MsgInvalidKey       = "Invalid key"
	MsgInvalidFibonacci = "Invalid fibonacci input"
	MsgPrimeNotArray    = "Prime expects an array"
	MsgPrimeNotIntegers = "Prime array must contain integers"
	MsgPrimeTooLong     = "Prime array is too long"
	MsgLCMNonEmptyArray = "LCM expects non-empty array"
	MsgHCFNonEmptyArray = "HCF expects non-empty array"
	MsgAIExpectsString  = "AI expects a string"
)

// ValidationError carries a client-facing message and its kind. Op is
// set once the request key has been recognised.
type ValidationError struct {
	Kind    error
	Op      Name
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Kind }

func invalid(kind error, msg string) error {
	return &ValidationError{Kind: kind, Message: msg}
}
