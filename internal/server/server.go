package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

// DefaultRequestTimeout bounds each request. Answer submission may wait on
// a model call, so it is well above the evaluator timeout.
const DefaultRequestTimeout = 30 * time.Second

type Server struct {
	Router *chi.Mux
	Port   int
	logger *slog.Logger
	http   *http.Server
}

type settings struct {
	auth         ports.AuthProvider
	authRequired bool
	timeout      time.Duration
	perMinute    int
	burst        int
}

// Option configures the middleware stack.
type Option func(*settings)

// WithAuth verifies bearer tokens with provider. When required is false,
// requests without an Authorization header pass through anonymously.
func WithAuth(provider ports.AuthProvider, required bool) Option {
	return func(s *settings) {
		s.auth = provider
		s.authRequired = required
	}
}

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRateLimit limits each client to perMinute requests with the given burst.
func WithRateLimit(perMinute, burst int) Option {
	return func(s *settings) {
		s.perMinute = perMinute
		s.burst = burst
	}
}

func New(port int, logger *slog.Logger, opts ...Option) *Server {
	cfg := settings{timeout: DefaultRequestTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	// Apply middleware in order
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))

	if cfg.perMinute > 0 {
		r.Use(NewRateLimiter(cfg.perMinute, cfg.burst).Middleware)
	}
	if cfg.auth != nil {
		r.Use(AuthMiddleware(cfg.auth, cfg.authRequired))
	}

	r.Use(TimeoutMiddleware(cfg.timeout))
	r.Use(middleware.Recoverer)

	// Wrap with OpenTelemetry HTTP instrumentation
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "interview-coach")
	})

	return &Server{
		Router: r,
		Port:   port,
		logger: logger,
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting server", slog.Int("port", s.Port))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.http.Shutdown(ctx)
}
