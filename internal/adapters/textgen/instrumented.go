package textgen

import (
	"context"
	"time"

	"github.com/okian/bfhl/pkg/logger"
	"github.com/okian/bfhl/pkg/metrics"
)

type instrumented struct {
	next    Generator
	backend string
	logger  logger.Logger
}

func (i *instrumented) Generate(ctx context.Context, prompt string) (Reply, error) {
	start := time.Now()
	reply, err := i.next.Generate(ctx, prompt)
	elapsed := time.Since(start)

	metrics.RecordUpstreamCall(i.backend, float64(elapsed.Milliseconds()), err != nil)
	if err != nil {
		i.logger.Warn(ctx, "generative call failed",
			logger.String("backend", i.backend),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
		return Reply{}, err
	}
	i.logger.Debug(ctx, "generative call done",
		logger.String("backend", i.backend),
		logger.Duration("elapsed", elapsed),
	)
	return reply, nil
}
