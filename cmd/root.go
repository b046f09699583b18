package main

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/bfhl/internal/adapters/textgen"
	service "github.com/okian/bfhl/internal/app"
	"github.com/okian/bfhl/internal/config"
	"github.com/okian/bfhl/pkg/logger"
	"github.com/okian/bfhl/pkg/metrics"
	"github.com/spf13/cobra"
)

// logsToStderr marks commands whose stdout carries results.
const logsToStderr = "logs-to-stderr"

type cli struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "bfhl",
		Short: "BFHL numeric utilities and generative passthrough over HTTP",
		Long: `bfhl serves GET /, GET /health and POST /bfhl.

POST /bfhl takes a JSON object with exactly one of the keys fibonacci,
prime, lcm, hcf or AI. Configuration comes from BFHL_* environment
variables, an optional YAML file named by BFHL_CONFIG, and the platform
variables PORT and GEMINI_API_KEY.

Run without a subcommand to start the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if _, ok := cmd.Annotations[logsToStderr]; ok {
				out = cmd.ErrOrStderr()
			}
			return c.setup(cmd.Context(), out)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}

	root.AddCommand(c.serveCmd(), c.evalCmd(), c.smokeCmd(), versionCmd())
	return root
}

// setup loads configuration and initializes logging.
func (c *cli) setup(ctx context.Context, logOut io.Writer) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(logOut)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Init(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithConstLabels(map[string]string{"version": version}),
	)
	log.Debug(ctx, "configuration loaded",
		logger.String("addr", cfg.ListenAddr()),
		logger.String("ai_backend", cfg.AIBackend),
		logger.Bool("metrics_enabled", cfg.MetricsEnabled),
		logger.Bool("docs_enabled", cfg.DocsEnabled),
		logger.Bool("normalize_input_errors", cfg.NormalizeInputErrors),
	)

	c.cfg = cfg
	c.log = log
	return nil
}

// newService builds the dispatcher and its generative client from c.cfg.
func (c *cli) newService(ctx context.Context) (*service.Service, error) {
	gen, err := textgen.New(ctx, textgen.Options{
		Backend: c.cfg.AIBackend,
		BaseURL: c.cfg.AIBaseURL,
		Model:   c.cfg.AIModel,
		APIKey:  c.cfg.GeminiAPIKey,
		Timeout: c.cfg.AITimeout(),
		Logger:  c.log.Named("textgen"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generative client: %w", err)
	}

	return service.New(
		service.WithLogger(c.log.Named("service")),
		service.WithGenerator(gen),
		service.WithMaxFibonacciTerms(c.cfg.MaxFibonacciTerms),
		service.WithMaxPrimeElements(c.cfg.MaxPrimeElements),
		service.WithComputeTimeout(c.cfg.ComputeTimeout()),
		service.WithNormalizeInputErrors(c.cfg.NormalizeInputErrors),
	), nil
}
