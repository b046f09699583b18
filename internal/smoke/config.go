// Package smoke runs black-box checks against a running BFHL server.
package smoke

import (
	"errors"
	"time"
)

// ErrChecksFailed is returned by Run when at least one check fails.
var ErrChecksFailed = errors.New("smoke checks failed")

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Email   string        // Expected official_email; empty accepts any non-empty value
	Workers int           // Number of concurrent checks
	Timeout time.Duration // Per-request timeout
	AI      bool          // Also exercise the AI operation (needs a configured key)
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Report summarises a run. Results are in case order.
type Report struct {
	Results  []Result
	Passed   int
	Failed   int
	Duration time.Duration
}
