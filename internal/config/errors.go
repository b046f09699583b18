package config

import (
	"errors"
)

// Load and Validate wrap one of these, so callers can tell a bad value
// (ErrInvalidConfig) from an unreadable file or environment (ErrLoadConfig).
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
