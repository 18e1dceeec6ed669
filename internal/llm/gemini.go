package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

var _ ports.LanguageModelClient = (*GeminiClient)(nil)

// GeminiOption configures a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithGeminiRateLimit caps outbound requests per minute.
func WithGeminiRateLimit(perMinute int) GeminiOption {
	return func(g *GeminiClient) {
		if perMinute > 0 {
			g.limiter = perMinuteLimiter(perMinute)
		}
	}
}

// NewGeminiClient creates a Gemini client. httpClient and baseURL are
// optional; tests point baseURL at a local server.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client, opts ...GeminiOption) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g := &GeminiClient{client: client, model: model}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate sends prompt to the configured model.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, params ports.GenerateParams) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", g.model),
		attribute.Bool("llm.json", params.JSON),
	)

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			err = fmt.Errorf("rate limit wait: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(params.Temperature)),
	}
	if params.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(params.MaxTokens)
	}
	if params.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		err = fmt.Errorf("gemini generate: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		span.SetStatus(codes.Error, ErrEmptyResponse.Error())
		return "", ErrEmptyResponse
	}
	return text, nil
}
