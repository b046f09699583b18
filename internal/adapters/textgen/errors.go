package textgen

import "errors"

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("AI service is not configured")
	// ErrUpstreamStatus is wrapped with the HTTP status of a non-2xx reply.
	ErrUpstreamStatus = errors.New("generative service returned status")
	// ErrUnknownBackend is returned by New for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown generative backend")
)
