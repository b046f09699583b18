package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every service-specific environment variable.
const EnvPrefix = "BFHL_"

// ConfigFileEnv names the variable holding an optional YAML config path.
const ConfigFileEnv = EnvPrefix + "CONFIG"

// bareEnv maps unprefixed platform variables onto config keys.
var bareEnv = map[string]string{
	"PORT":           "port",
	"GEMINI_API_KEY": "gemini_api_key",
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file if BFHL_CONFIG is set
//  3. bare platform variables PORT and GEMINI_API_KEY
//  4. BFHL_* variables
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	bare := env.Provider("", ".", func(s string) string {
		return bareEnv[s]
	})
	if err := k.Load(bare, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// BFHL_MAX_BODY_BYTES -> max_body_bytes; underscores are kept to match
	// the flat koanf tags.
	prefixed := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		if s == "CONFIG" {
			return ""
		}
		return strings.ToLower(s)
	})
	if err := k.Load(prefixed, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
