package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/okian/bfhl/internal/adapters/http/api"
	"github.com/okian/bfhl/internal/adapters/http/site"
	"github.com/okian/bfhl/internal/adapters/http/swagger"
	"github.com/okian/bfhl/pkg/logger"
	"github.com/okian/bfhl/pkg/metrics"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	writeTimeoutSlack         = 10 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}
}

// newHandler assembles the routes and middleware chain.
func (c *cli) newHandler(ctx context.Context) (http.Handler, error) {
	svc, err := c.newService(ctx)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	site.Register(ctx, mux)
	if c.cfg.DocsEnabled {
		swagger.Register(ctx, mux)
	}

	apiServer := api.NewServer(svc,
		api.WithOfficialEmail(c.cfg.OfficialEmail),
		api.WithMaxBodyBytes(c.cfg.MaxBodyBytes),
		api.WithMetrics(c.cfg.MetricsEnabled),
		api.WithRateLimit(c.cfg.RateLimitRPS, c.cfg.RateLimitBurst),
		api.WithLogger(c.log.Named("http")),
	)
	apiServer.Register(ctx, mux)
	return apiServer.Handler(mux), nil
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (c *cli) serve(ctx context.Context) error {
	handler, err := c.newHandler(ctx)
	if err != nil {
		return err
	}

	addr := c.cfg.ListenAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      c.cfg.AITimeout() + writeTimeoutSlack,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.log.Info(gctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		c.log.Info(context.Background(), "shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		c.log.Info(context.Background(), "server stopped")
		return nil
	})

	if c.cfg.MetricsEnabled {
		g.Go(func() error {
			startSystemMetricsUpdater(gctx)
			return nil
		})
	}

	return g.Wait()
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var avgPauseMs float64
	if m.NumGC > 0 {
		avgPauseMs = float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
	}
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine(), avgPauseMs)
}
