// Package runtime assembles the interview coach from configuration and manages
// its lifecycle.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tjfontaine/interview-coach/internal/adapters/archive/s3"
	"github.com/tjfontaine/interview-coach/internal/adapters/auth/jwt"
	"github.com/tjfontaine/interview-coach/internal/adapters/events/direct"
	"github.com/tjfontaine/interview-coach/internal/adapters/events/rabbitmq"
	"github.com/tjfontaine/interview-coach/internal/api/interview"
	"github.com/tjfontaine/interview-coach/internal/assessment"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
	"github.com/tjfontaine/interview-coach/internal/evaluator"
	"github.com/tjfontaine/interview-coach/internal/llm"
	"github.com/tjfontaine/interview-coach/internal/pkg/config"
	"github.com/tjfontaine/interview-coach/internal/questionbank"
	"github.com/tjfontaine/interview-coach/internal/report"
	"github.com/tjfontaine/interview-coach/internal/server"
	"github.com/tjfontaine/interview-coach/internal/session"
	"github.com/tjfontaine/interview-coach/internal/storage/memory"
	"github.com/tjfontaine/interview-coach/internal/storage/mongo"
	"github.com/tjfontaine/interview-coach/internal/storage/postgres"
	"github.com/tjfontaine/interview-coach/internal/storage/sqlite"
	"github.com/tjfontaine/interview-coach/internal/tokens"
)

// App is a fully wired interview coach service.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	store    ports.ResultStore
	events   ports.EventPublisher
	model    ports.LanguageModelClient
	archiver ports.ReportArchiver

	engine *session.Engine
	server *server.Server
}

// New builds every component named by cfg. Components supplied through
// options take precedence over the config.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if err := a.build(ctx); err != nil {
		// Release whatever was opened before the failure.
		_ = a.close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	var err error

	if a.store == nil {
		if a.store, err = openStore(ctx, a.cfg.Storage); err != nil {
			return fmt.Errorf("open %s storage: %w", a.cfg.Storage.Kind, err)
		}
	}
	a.logger.Info("result store ready", slog.String("kind", a.cfg.Storage.Kind))

	if a.events == nil {
		if a.events, err = a.openEvents(); err != nil {
			return fmt.Errorf("open %s events: %w", a.cfg.Events.Kind, err)
		}
	}

	if a.model == nil {
		if a.model, err = a.openLanguageModel(ctx); err != nil {
			return fmt.Errorf("create %s client: %w", a.cfg.LLM.Provider, err)
		}
	}
	if a.model == nil {
		a.logger.Info("no language model configured, using heuristic evaluation only")
	}

	if a.archiver == nil && a.cfg.Archive.Enabled {
		archiver, err := s3.New(ctx, a.cfg.Archive.S3)
		if err != nil {
			return fmt.Errorf("create report archiver: %w", err)
		}
		a.archiver = archiver
	}

	bankOpts := []questionbank.Option{}
	if a.cfg.Interview.Seed != 0 {
		bankOpts = append(bankOpts, questionbank.WithSeed(a.cfg.Interview.Seed))
	}
	catalog, err := questionbank.New(bankOpts...)
	if err != nil {
		return err
	}
	var bank ports.QuestionBank = catalog
	if a.model != nil && a.cfg.Interview.GenerateQuestions {
		bank = questionbank.NewGenerator(a.model, catalog,
			questionbank.WithGeneratorTimeout(a.cfg.Interview.GeneratorTimeout),
			questionbank.WithGeneratorLogger(a.logger),
		)
		a.logger.Info("question generation enabled", slog.String("provider", a.cfg.LLM.Provider))
	}

	evalOpts := []evaluator.Option{
		evaluator.WithLogger(a.logger),
		evaluator.WithTimeout(a.cfg.Interview.EvaluatorTimeout),
	}
	if a.model != nil {
		evalOpts = append(evalOpts,
			evaluator.WithLanguageModel(a.model),
			evaluator.WithAnswerTokenBudget(tokens.NewCounter(a.cfg.LLM.Model), a.cfg.Interview.AnswerTokenBudget),
		)
	}
	eval := evaluator.New(evalOpts...)

	engineOpts := []session.Option{
		session.WithLogger(a.logger),
		session.WithQuestionCount(a.cfg.Interview.QuestionCount),
		session.WithIdleTimeout(a.cfg.Interview.IdleTimeout),
		session.WithPersistTimeout(a.cfg.Interview.PersistTimeout),
	}
	if a.events != nil {
		engineOpts = append(engineOpts, session.WithEventPublisher(a.events))
	}
	if a.archiver != nil {
		engineOpts = append(engineOpts, session.WithArchiver(a.archiver))
	}
	if a.model != nil && a.cfg.Interview.Summary {
		engineOpts = append(engineOpts, session.WithSummarizer(eval))
	}
	a.engine = session.New(bank, eval, a.store, engineOpts...)

	serverOpts := []server.Option{
		server.WithRequestTimeout(a.cfg.Server.RequestTimeout),
		server.WithRateLimit(a.cfg.Server.RateLimitPerMinute, a.cfg.Server.RateLimitBurst),
	}
	if a.cfg.Auth.Enabled {
		provider, err := jwt.NewProvider(a.cfg.Auth.Secret,
			jwt.WithIssuer(a.cfg.Auth.Issuer),
			jwt.WithTTL(a.cfg.Auth.TTL),
		)
		if err != nil {
			return fmt.Errorf("create auth provider: %w", err)
		}
		serverOpts = append(serverOpts, server.WithAuth(provider, a.cfg.Auth.Required))
	}
	a.server = server.New(a.cfg.Server.Port, a.logger, serverOpts...)

	table, err := assessment.DefaultTable()
	if err != nil {
		return fmt.Errorf("load assessment: %w", err)
	}
	interview.NewHandler(a.engine, table, report.Render).Register(a.server.Router)
	return nil
}

func openStore(ctx context.Context, cfg config.StorageConfig) (ports.ResultStore, error) {
	switch cfg.Kind {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoragePostgres:
		store, err := postgres.New(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageMongo:
		store, err := mongo.New(ctx, cfg.URI, cfg.Database)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage kind: %s", cfg.Kind)
	}
}

func (a *App) openEvents() (ports.EventPublisher, error) {
	switch a.cfg.Events.Kind {
	case config.EventsNone:
		return nil, nil
	case config.EventsDirect:
		return direct.NewPublisher(a.logger), nil
	case config.EventsRabbitMQ:
		publisher, err := rabbitmq.NewPublisher(a.cfg.Events.URL, a.cfg.Events.Exchange)
		if err != nil {
			return nil, err
		}
		return publisher, nil
	default:
		return nil, fmt.Errorf("unknown events kind: %s", a.cfg.Events.Kind)
	}
}

func (a *App) openLanguageModel(ctx context.Context) (ports.LanguageModelClient, error) {
	cfg := a.cfg.LLM
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.Timeout,
	}

	if cfg.Provider == llm.ProviderGemini {
		client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL, httpClient,
			llm.WithGeminiRateLimit(cfg.RequestsPerMinute))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := llm.New(cfg, llm.WithHTTPClient(httpClient), llm.WithLogger(a.logger))
	if errors.Is(err, llm.ErrNotConfigured) {
		return nil, nil
	}
	return client, err
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Router
}

// Engine returns the session engine.
func (a *App) Engine() *session.Engine {
	return a.engine
}

// Start serves HTTP until Shutdown is called.
func (a *App) Start() error {
	return a.server.Start()
}

// Shutdown stops the HTTP server and closes the store and publisher.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
		}
	}
	if n := a.engine.ActiveSessions(); n > 0 {
		a.logger.Warn("discarding unfinished sessions", slog.Int("count", n))
	}
	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) close() error {
	var errs []error
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close events: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}
