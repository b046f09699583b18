// Package textgen talks to the Gemini generateContent API and reduces a
// reply to its first word.
package textgen

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/okian/bfhl/pkg/logger"
)

// Backend names accepted by New.
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-pro"
	DefaultTimeout = 30 * time.Second
)

// Generator sends one prompt and returns the first candidate.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Reply, error)
}

// Options configures a Generator.
type Options struct {
	Backend string
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
	Logger  logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Backend == "" {
		o.Backend = BackendREST
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// New builds the configured backend wrapped with metrics. A missing API key
// is not an error here: the returned Generator fails every call with
// ErrNotConfigured so the rest of the service still starts.
func New(ctx context.Context, opts Options) (Generator, error) {
	opts = opts.withDefaults()

	if opts.APIKey == "" {
		opts.Logger.Warn(ctx, "gemini api key not set, AI operation disabled")
		return unconfigured{}, nil
	}

	var (
		g   Generator
		err error
	)
	switch opts.Backend {
	case BackendREST:
		g = NewRESTClient(opts)
	case BackendSDK:
		g, err = NewSDKClient(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	opts.Logger.Info(ctx, "generative client ready",
		logger.String("backend", opts.Backend),
		logger.String("model", opts.Model),
		logger.Duration("timeout", opts.Timeout),
	)
	return &instrumented{next: g, backend: opts.Backend, logger: opts.Logger}, nil
}

type unconfigured struct{}

func (unconfigured) Generate(context.Context, string) (Reply, error) {
	return Reply{}, ErrNotConfigured
}

// splitBaseURL separates the trailing API version segment, so
// "https://host/v1beta" becomes "https://host/" and "v1beta".
func splitBaseURL(raw string) (base, version string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse base url: %w", err)
	}
	path := strings.TrimSuffix(u.Path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 || idx == len(path)-1 {
		return raw, "", nil
	}
	version = path[idx+1:]
	u.Path = path[:idx+1]
	return u.String(), version, nil
}
