// Package service dispatches a decoded request body to the matching
// operation and classifies its failures.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/okian/bfhl/internal/adapters/textgen"
	"github.com/okian/bfhl/internal/domain/model"
	"github.com/okian/bfhl/internal/domain/numeric"
	"github.com/okian/bfhl/pkg/logger"
	"github.com/okian/bfhl/pkg/metrics"
)

// Outcome labels recorded per dispatch.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Generator is the part of the generative client the service needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (textgen.Reply, error)
}

// Service runs operations. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	generator            Generator
	maxFibonacciTerms    int
	maxPrimeElements     int
	computeTimeout       time.Duration
	normalizeInputErrors bool
	logger               logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGenerator sets the client used by the AI operation.
func WithGenerator(g Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithMaxFibonacciTerms caps the fibonacci input. Zero disables the cap.
func WithMaxFibonacciTerms(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxFibonacciTerms = n
		}
	}
}

// WithMaxPrimeElements caps the prime array length. Zero disables the cap.
func WithMaxPrimeElements(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxPrimeElements = n
		}
	}
}

// WithComputeTimeout bounds fibonacci, prime, lcm and hcf. Zero leaves
// them bound only by the caller's context. The AI operation keeps the
// generator's own timeout.
func WithComputeTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.computeTimeout = d
		}
	}
}

// WithNormalizeInputErrors reports lcm, hcf and AI input errors as
// invalid input instead of failures.
func WithNormalizeInputErrors(on bool) Option {
	return func(s *Service) {
		s.normalizeInputErrors = on
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without WithGenerator the AI operation fails
// with textgen.ErrNotConfigured.
func New(opts ...Option) *Service {
	s := &Service{
		maxFibonacciTerms: 1000,
		maxPrimeElements:  10_000,
		computeTimeout:    10 * time.Second,
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = notConfigured{}
	}
	return s
}

type notConfigured struct{}

func (notConfigured) Generate(context.Context, string) (textgen.Reply, error) {
	return textgen.Reply{}, textgen.ErrNotConfigured
}

// Dispatch decodes body and runs the single operation it names. On success
// the result is JSON-encodable. Every error is an *Error.
func (s *Service) Dispatch(ctx context.Context, body io.Reader) (data any, err error) {
	start := time.Now()
	name := "none"

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "operation panicked",
				logger.String("operation", name),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())),
			)
			data, err = nil, &Error{Kind: ErrFailed, Message: panicMessage(r), Err: fmt.Errorf("panic: %v", r)}
		}
		metrics.RecordOperation(name, outcome(err), float64(time.Since(start).Microseconds())/1000)
	}()

	op, err := model.Parse(body, model.ParseOptions{
		MaxFibonacciTerms: s.maxFibonacciTerms,
		MaxPrimeElements:  s.maxPrimeElements,
	})
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) && verr.Op != "" {
			name = string(verr.Op)
		}
		return nil, s.classify(err)
	}
	name = string(op.Name())

	data, err = s.execute(ctx, op)
	if err != nil {
		s.logger.Warn(ctx, "operation failed",
			logger.String("operation", name),
			logger.Error(err),
		)
		return nil, err
	}
	return data, nil
}

func (s *Service) execute(ctx context.Context, op model.Operation) (any, error) {
	if ai, ok := op.(model.AI); ok {
		reply, err := s.generator.Generate(ctx, ai.Prompt)
		if err != nil {
			return nil, &Error{Kind: ErrFailed, Message: err.Error(), Err: err}
		}
		return reply.FirstWord(), nil
	}

	if s.computeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.computeTimeout)
		defer cancel()
	}

	var (
		data any
		err  error
	)
	switch op := op.(type) {
	case model.Fibonacci:
		data = numeric.Fibonacci(op.N)
	case model.Prime:
		data, err = numeric.Primes(ctx, op.Values)
	case model.LCM:
		data, err = numeric.LCMOf(ctx, op.Values)
	case model.HCF:
		data, err = numeric.HCFOf(ctx, op.Values)
	default:
		return nil, &Error{Kind: ErrFailed, Message: "unsupported operation", Err: fmt.Errorf("operation %T", op)}
	}
	if err != nil {
		return nil, interrupted(err)
	}
	return data, nil
}

// interrupted reports a computation stopped by its context.
func interrupted(err error) error {
	msg := MsgCancelled
	if errors.Is(err, context.DeadlineExceeded) {
		msg = MsgTimedOut
	}
	return &Error{Kind: ErrFailed, Message: msg, Err: err}
}

// classify maps a parse error to its kind. Argument errors are failures
// unless normalization is on.
func (s *Service) classify(err error) error {
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		return &Error{Kind: ErrFailed, Message: err.Error(), Err: err}
	}
	kind := ErrInvalidInput
	if errors.Is(err, model.ErrArgument) && !s.normalizeInputErrors {
		kind = ErrFailed
	}
	return &Error{Kind: kind, Message: verr.Message, Err: err}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrInvalidInput):
		return outcomeRejected
	}
	return outcomeFailed
}

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(r)
}
