package smoke

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/bfhl/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 10 * time.Second

// Run executes every case against cfg.BaseURL. It returns ErrChecksFailed
// when any check fails; transport errors count as failures.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Report, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	start := time.Now()
	cases := Cases(cfg.AI)
	results := make([]Result, len(cases))
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("cases", len(cases)),
		logger.Int("workers", cfg.Workers),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, tc := range cases {
		g.Go(func() error {
			began := time.Now()
			resp, err := c.do(gctx, tc.Method, tc.Path, tc.Body)
			if err == nil {
				err = tc.check(resp, cfg.Email)
			}
			results[i] = Result{Name: tc.Name, Err: err, Duration: time.Since(began)}
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Results: results, Duration: time.Since(start)}
	for _, r := range results {
		if r.Err != nil {
			report.Failed++
			log.Warn(ctx, "check failed", logger.String("check", r.Name), logger.Error(r.Err))
			continue
		}
		report.Passed++
		log.Debug(ctx, "check passed", logger.String("check", r.Name), logger.Duration("duration", r.Duration))
	}

	log.Info(ctx, "smoke run finished",
		logger.Int("passed", report.Passed),
		logger.Int("failed", report.Failed),
		logger.Duration("duration", report.Duration),
	)
	if report.Failed > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrChecksFailed, report.Failed, len(results))
	}
	return report, nil
}
