// Package llm provides LanguageModelClient implementations for
// OpenAI-compatible chat completion endpoints (OpenAI, Ollama, Perplexity)
// and Google Gemini.
package llm

import (
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

const tracerName = "github.com/tjfontaine/interview-coach/internal/llm"

var tracer = otel.Tracer(tracerName)

// Provider names accepted by New.
const (
	ProviderNone       = "none"
	ProviderOpenAI     = "openai"
	ProviderOllama     = "ollama"
	ProviderPerplexity = "perplexity"
	ProviderGemini     = "gemini"
)

// Default endpoints for OpenAI-compatible providers.
var defaultBaseURLs = map[string]string{
	ProviderOpenAI:     "https://api.openai.com/v1",
	ProviderOllama:     "http://localhost:11434/v1",
	ProviderPerplexity: "https://api.perplexity.ai",
}

var (
	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("llm returned empty content")
	// ErrNotConfigured is returned by New when no provider is selected.
	ErrNotConfigured = errors.New("llm provider not configured")
)

// StatusError reports a non-2xx response from an upstream model API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm returned status %d: %s", e.StatusCode, e.Body)
}

// Config selects and configures a client.
type Config struct {
	Provider          string        `koanf:"provider"`
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	Timeout           time.Duration `koanf:"timeout"`
	// RequestsPerMinute caps outbound calls for every provider; 0 disables.
	RequestsPerMinute int `koanf:"requests_per_minute"`
}

// BaseURLFor returns the configured base URL or the provider default.
func (c Config) BaseURLFor() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return defaultBaseURLs[c.Provider]
}

// New builds the client for cfg.Provider. Gemini clients need a context to
// construct and are built by NewGeminiClient instead.
func New(cfg Config, opts ...Option) (ports.LanguageModelClient, error) {
	switch cfg.Provider {
	case "", ProviderNone:
		return nil, ErrNotConfigured
	case ProviderOpenAI, ProviderOllama, ProviderPerplexity:
		if cfg.Model == "" {
			return nil, fmt.Errorf("llm provider %s requires a model", cfg.Provider)
		}
		if cfg.RequestsPerMinute > 0 {
			opts = append([]Option{WithRateLimit(cfg.RequestsPerMinute)}, opts...)
		}
		return NewOpenAIClient(cfg.BaseURLFor(), cfg.APIKey, cfg.Model, opts...), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
