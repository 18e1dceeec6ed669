// Package ports defines the interfaces the session engine consumes.
package ports

import (
	"context"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

// QuestionBank is a read-only catalog of interview questions.
type QuestionBank interface {
	// Select returns count questions for topic and difficulty, in presentation order.
	// It returns domain.ErrNoQuestionsAvailable when nothing matches the topic at all.
	Select(ctx context.Context, topic string, difficulty domain.Difficulty, count int) ([]domain.Question, error)
}

// GenerateParams are the generation settings passed to a language model.
type GenerateParams struct {
	Temperature float64
	MaxTokens   int
	// JSON asks the model for a JSON object response where the backend supports it.
	JSON bool
}

// LanguageModelClient generates text from a prompt.
// Implementations: OpenAI-compatible chat completions, Gemini.
type LanguageModelClient interface {
	Generate(ctx context.Context, prompt string, params GenerateParams) (string, error)
}

// EventPublisher publishes session lifecycle events.
// Implementations: direct in-process (default), RabbitMQ.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.LifecycleEvent) error
	Close() error
}

// AuthContext contains authenticated request context.
type AuthContext struct {
	UserID   string
	Scopes   []string
	Metadata map[string]string
}

// AuthProvider validates bearer tokens.
// Implementations: HMAC-signed JWT.
type AuthProvider interface {
	Authenticate(ctx context.Context, token string) (*AuthContext, error)
}
