// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/bfhl/internal/app"
	"github.com/okian/bfhl/internal/config"
	"github.com/okian/bfhl/internal/domain/types"
	"github.com/okian/bfhl/pkg/logger"
	"github.com/okian/bfhl/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const defaultMaxBodyBytes = 1 << 20

// Dispatcher runs one operation from a raw request body. Errors should be
// *service.Error; anything else is reported as a 500.
type Dispatcher interface {
	Dispatch(ctx context.Context, body io.Reader) (any, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	email          string
	maxBodyBytes   int64
	metricsEnabled bool
	limiter        *rate.Limiter
	logger         logger.Logger

	healthHandler *HealthHandler
	bfhlHandler   *BFHLHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithOfficialEmail sets the address echoed in every envelope.
func WithOfficialEmail(email string) Option {
	return func(s *Server) {
		if email != "" {
			s.email = email
		}
	}
}

// WithMaxBodyBytes limits the POST body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithMetrics toggles the /metrics route.
func WithMetrics(enabled bool) Option {
	return func(s *Server) {
		s.metricsEnabled = enabled
	}
}

// WithRateLimit enables a process-wide token bucket. A non-positive rps
// disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(d Dispatcher, opts ...Option) *Server {
	s := &Server{
		email:          config.DefaultOfficialEmail,
		maxBodyBytes:   defaultMaxBodyBytes,
		metricsEnabled: true,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler(s.email)
	s.bfhlHandler = NewBFHLHandler(d, s.email, s.maxBodyBytes)
	return s
}

// Register attaches the API routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("POST /bfhl", MetricsMiddleware(s.bfhlHandler.HandleBFHL, "bfhl"))
	if s.metricsEnabled {
		mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}
}

// Handler wraps h with the process-wide middleware chain, outermost first:
// request id, access log, panic recovery, rate limit.
func (s *Server) Handler(h http.Handler) http.Handler {
	return RequestID(s.logRequests(s.recoverPanics(s.rateLimit(h))))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as a failure envelope. Invalid input is a 400;
// everything else is a 500.
func writeError(w http.ResponseWriter, email string, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	var serr *service.Error
	if errors.As(err, &serr) {
		msg = serr.Message
		if errors.Is(serr, service.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
	}
	writeJSON(w, status, types.Failure(email, msg))
}
