package questionbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
	"github.com/tjfontaine/interview-coach/internal/llm"
	"github.com/tjfontaine/interview-coach/internal/pkg/id"
)

// DefaultGeneratorTimeout bounds a single question generation call.
const DefaultGeneratorTimeout = 8 * time.Second

const (
	priorQuestions     = 3
	priorQuestionChars = 50
)

// Generator is a QuestionBank that asks a language model to write each
// question. It first draws a full selection from its fallback bank, which
// fixes the category of every slot, then replaces slots one by one with
// generated questions. A slot whose generation fails keeps the fallback
// question. After the model call itself fails, the remaining slots are not
// attempted.
type Generator struct {
	model    ports.LanguageModelClient
	fallback ports.QuestionBank
	timeout  time.Duration
	logger   *slog.Logger
	newID    func() string
}

var _ ports.QuestionBank = (*Generator)(nil)

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGeneratorTimeout bounds each model call.
func WithGeneratorTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithGeneratorLogger sets the logger used for fallback warnings.
func WithGeneratorLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = l
	}
}

// NewGenerator creates a Generator over model that falls back to fallback.
func NewGenerator(model ports.LanguageModelClient, fallback ports.QuestionBank, opts ...GeneratorOption) *Generator {
	g := &Generator{
		model:    model,
		fallback: fallback,
		timeout:  DefaultGeneratorTimeout,
		logger:   slog.Default(),
		newID:    id.New,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Select implements ports.QuestionBank. Errors from the fallback bank are
// returned unchanged; model failures never are.
func (g *Generator) Select(ctx context.Context, topic string, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
	base, err := g.fallback.Select(ctx, topic, difficulty, count)
	if err != nil {
		return nil, err
	}
	if g.model == nil {
		return base, nil
	}

	out := make([]domain.Question, len(base))
	copy(out, base)

	asked := make([]string, 0, len(out))
	for i := range out {
		prompt := buildQuestionPrompt(topic, difficulty, out[i].Category, i+1, len(out), asked)
		q, err := g.generate(ctx, prompt)
		if err != nil {
			g.logger.Warn("question generation failed, using catalog question",
				slog.String("topic", topic),
				slog.Int("number", i+1),
				slog.String("fallback_id", out[i].ID),
				slog.String("error", err.Error()),
			)
			var unusable *unusableError
			if !errors.As(err, &unusable) {
				break
			}
			asked = append(asked, out[i].Text)
			continue
		}

		q.ID = "gen-" + g.newID()
		q.Category = out[i].Category
		q.Topic = topic
		q.Difficulty = difficulty
		if len(q.EvaluationCriteria) == 0 {
			q.EvaluationCriteria = append([]string(nil), criteriaByCategory[q.Category]...)
		}
		out[i] = q
		asked = append(asked, q.Text)
	}
	return out, nil
}

// unusableError marks model output that arrived but could not be parsed.
type unusableError struct {
	err error
}

func (e *unusableError) Error() string { return "unusable model output: " + e.err.Error() }

func (e *unusableError) Unwrap() error { return e.err }

func (g *Generator) generate(ctx context.Context, prompt string) (domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.model.Generate(ctx, prompt, ports.GenerateParams{
		Temperature: 0.7,
		MaxTokens:   500,
		JSON:        true,
	})
	if err != nil {
		return domain.Question{}, err
	}
	q, err := ParseGeneratedQuestion(text)
	if err != nil {
		return domain.Question{}, &unusableError{err: err}
	}
	return q, nil
}

type generatedJSON struct {
	Question           string   `json:"question"`
	KeyPoints          []string `json:"key_points"`
	EvaluationCriteria []string `json:"evaluation_criteria"`
	SampleAnswer       string   `json:"sample_answer"`
}

// ParseGeneratedQuestion reads a question from raw model output. Key points
// become lowercased expected keywords. The caller assigns id and category.
func ParseGeneratedQuestion(raw string) (domain.Question, error) {
	obj := llm.ExtractJSON(raw)
	if obj == "" {
		return domain.Question{}, errors.New("no JSON object in model output")
	}

	var parsed generatedJSON
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return domain.Question{}, fmt.Errorf("invalid question JSON: %w", err)
	}
	text := strings.TrimSpace(parsed.Question)
	if text == "" {
		return domain.Question{}, errors.New("generated question has no text")
	}

	var keywords []string
	seen := make(map[string]bool)
	for _, k := range parsed.KeyPoints {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keywords = append(keywords, k)
	}

	var criteria []string
	for _, c := range parsed.EvaluationCriteria {
		if c = strings.TrimSpace(c); c != "" {
			criteria = append(criteria, c)
		}
	}

	return domain.Question{
		Text:               text,
		ExpectedKeywords:   keywords,
		EvaluationCriteria: criteria,
		SampleAnswer:       strings.TrimSpace(parsed.SampleAnswer),
	}, nil
}

func buildQuestionPrompt(topic string, difficulty domain.Difficulty, category domain.Category, n, total int, asked []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are interviewing a candidate for: %s.\n", topic)
	fmt.Fprintf(&b, "Write interview question %d of %d at %s difficulty. It must be a %s question.\n",
		n, total, difficulty, strings.ReplaceAll(string(category), "_", " "))

	if len(asked) > 0 {
		b.WriteString("Do not repeat these earlier questions:\n")
		start := len(asked) - priorQuestions
		if start < 0 {
			start = 0
		}
		for _, prev := range asked[start:] {
			if r := []rune(prev); len(r) > priorQuestionChars {
				prev = string(r[:priorQuestionChars]) + "..."
			}
			fmt.Fprintf(&b, "- %s\n", prev)
		}
	}

	b.WriteString("Respond with JSON using the keys: question, key_points (3 to 5 short keywords a strong answer mentions), ")
	b.WriteString("evaluation_criteria, sample_answer.")
	return b.String()
}
