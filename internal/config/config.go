// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and environment on top.
// - Validation errors wrap ErrInvalidConfig, load errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// AI backend identifiers.
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// DefaultOfficialEmail is reported in every response envelope.
const DefaultOfficialEmail = "jatin1258.be23@chitkarauniversity.edu.in"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// Port, when non-zero, replaces the port of Addr. It is fed by the
	// platform's bare PORT variable.
	Port int `koanf:"port"`

	// OfficialEmail is the constant echoed in every envelope.
	OfficialEmail string `koanf:"official_email"`

	// MaxFibonacciTerms caps the fibonacci operation input.
	MaxFibonacciTerms int `koanf:"max_fibonacci_terms"`

	// MaxPrimeElements caps the length of the prime operation's array.
	MaxPrimeElements int `koanf:"max_prime_elements"`

	// ComputeTimeoutMS bounds fibonacci, prime, lcm and hcf; 0 disables it.
	ComputeTimeoutMS int `koanf:"compute_timeout_ms"`

	// NormalizeInputErrors reports lcm/hcf/AI shape violations as 400
	// instead of 500.
	NormalizeInputErrors bool `koanf:"normalize_input_errors"`

	// MaxBodyBytes bounds the POST /bfhl body.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MetricsEnabled exposes GET /metrics and turns recording on.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// DocsEnabled exposes GET /openapi.yaml and GET /api-docs.
	DocsEnabled bool `koanf:"docs_enabled"`

	// RateLimitRPS is the global inbound request budget; 0 disables it.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// AIBackend selects the generative client: rest or sdk.
	AIBackend string `koanf:"ai_backend"`

	// AIBaseURL is the generative service root used by the rest backend.
	AIBaseURL string `koanf:"ai_base_url"`

	// AIModel names the model invoked by both backends.
	AIModel string `koanf:"ai_model"`

	// AITimeoutMS bounds a single upstream call.
	AITimeoutMS int `koanf:"ai_timeout_ms"`

	// GeminiAPIKey is the upstream credential.
	GeminiAPIKey string `koanf:"gemini_api_key"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":3000",
		OfficialEmail:     DefaultOfficialEmail,
		MaxFibonacciTerms: 1000,
		MaxPrimeElements:  10_000,
		ComputeTimeoutMS:  10_000,
		MaxBodyBytes:      1 << 20,
		MetricsEnabled:    true,
		MetricsNamespace:  "bfhl",
		DocsEnabled:       true,
		RateLimitBurst:    1,
		AIBackend:         BackendREST,
		AIBaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		AIModel:           "gemini-pro",
		AITimeoutMS:       30_000,
	}
}

// ListenAddr returns Addr with Port applied.
func (c *Config) ListenAddr() string {
	if c.Port == 0 {
		return c.Addr
	}
	host, _, err := net.SplitHostPort(c.Addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, strconv.Itoa(c.Port))
}

// AITimeout returns the upstream call bound.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutMS) * time.Millisecond
}

// ComputeTimeout returns the bound on numeric operations.
func (c *Config) ComputeTimeout() time.Duration {
	return time.Duration(c.ComputeTimeoutMS) * time.Millisecond
}

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	case c.OfficialEmail == "":
		return fmt.Errorf("%w: official_email must not be empty", ErrInvalidConfig)
	case c.MaxFibonacciTerms < 0:
		return fmt.Errorf("%w: max_fibonacci_terms must not be negative", ErrInvalidConfig)
	case c.MaxPrimeElements < 0:
		return fmt.Errorf("%w: max_prime_elements must not be negative", ErrInvalidConfig)
	case c.ComputeTimeoutMS < 0:
		return fmt.Errorf("%w: compute_timeout_ms must not be negative", ErrInvalidConfig)
	case c.MetricsNamespace == "":
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.RateLimitRPS < 0 || c.RateLimitBurst < 0:
		return fmt.Errorf("%w: rate limit values must not be negative", ErrInvalidConfig)
	case c.AIBackend != BackendREST && c.AIBackend != BackendSDK:
		return fmt.Errorf("%w: unknown ai_backend %q", ErrInvalidConfig, c.AIBackend)
	case c.AITimeoutMS <= 0:
		return fmt.Errorf("%w: ai_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
