// Package evaluator scores interview answers.
//
// Every evaluation starts from the deterministic Baseline. When a language
// model is configured the Evaluator asks it for a critique under a bounded
// timeout and merges a usable critique into the baseline: the higher score
// wins and feedback lists are unioned. Any model failure leaves the baseline
// untouched.
package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
	"github.com/tjfontaine/interview-coach/internal/llm"
	"github.com/tjfontaine/interview-coach/internal/tokens"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 5 * time.Second

var tracer = otel.Tracer("github.com/tjfontaine/interview-coach/internal/evaluator")

// FailureReason says why augmentation produced nothing.
type FailureReason string

const (
	// ReasonUnavailable: the model call failed or timed out.
	ReasonUnavailable FailureReason = "unavailable"
	// ReasonUnusable: the model answered but the output could not be used.
	ReasonUnusable FailureReason = "unusable"
)

// Critique is the parsed model feedback for one answer.
type Critique struct {
	Score          float64
	Strengths      []string
	Improvements   []string
	Recommendation string
}

// Outcome is the tagged result of one augmentation attempt: either OK with a
// Critique, or failed with a Reason and the underlying error.
type Outcome struct {
	Critique *Critique
	Reason   FailureReason
	Err      error
}

// OK reports whether the outcome carries a usable critique.
func (o Outcome) OK() bool { return o.Critique != nil }

func ok(c *Critique) Outcome { return Outcome{Critique: c} }

func failed(reason FailureReason, err error) Outcome {
	return Outcome{Reason: reason, Err: err}
}

// Evaluator scores answers, optionally augmented by a language model.
type Evaluator struct {
	model        ports.LanguageModelClient
	timeout      time.Duration
	counter      *tokens.Counter
	answerBudget int
	logger       *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLanguageModel enables augmentation through m.
func WithLanguageModel(m ports.LanguageModelClient) Option {
	return func(e *Evaluator) {
		e.model = m
	}
}

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithAnswerTokenBudget truncates answers to limit tokens before they are
// placed in a prompt.
func WithAnswerTokenBudget(counter *tokens.Counter, limit int) Option {
	return func(e *Evaluator) {
		e.counter = counter
		e.answerBudget = limit
	}
}

// WithLogger sets the logger used to report degraded evaluations.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// New creates an Evaluator. Without WithLanguageModel it returns baseline
// evaluations only.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores answer against q. It never fails: model problems are logged
// and the baseline evaluation is returned with AIAugmented=false.
func (e *Evaluator) Evaluate(ctx context.Context, q domain.Question, answer string) domain.Evaluation {
	ctx, span := tracer.Start(ctx, "evaluator.evaluate",
		trace.WithAttributes(
			attribute.String("question.id", q.ID),
			attribute.String("question.category", string(q.Category)),
		))
	defer span.End()

	base := Baseline(q, answer)
	span.SetAttributes(attribute.Float64("evaluation.baseline_score", base.Score))

	if e.model == nil {
		return base
	}

	out := e.Augment(ctx, q, answer)
	if !out.OK() {
		span.SetAttributes(attribute.String("evaluation.degraded", string(out.Reason)))
		e.logger.Warn("answer evaluation degraded to baseline",
			slog.String("question_id", q.ID),
			slog.String("reason", string(out.Reason)),
			slog.String("error", errString(out.Err)),
		)
		return base
	}

	merged := Merge(base, *out.Critique)
	span.SetAttributes(
		attribute.Bool("evaluation.ai_augmented", true),
		attribute.Float64("evaluation.score", merged.Score),
	)
	return merged
}

// Augment makes one bounded model call for q and answer.
func (e *Evaluator) Augment(ctx context.Context, q domain.Question, answer string) Outcome {
	if e.model == nil {
		return failed(ReasonUnavailable, llm.ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.model.Generate(ctx, e.buildPrompt(q, answer), ports.GenerateParams{
		Temperature: 0.3,
		MaxTokens:   400,
		JSON:        true,
	})
	if err != nil {
		return failed(ReasonUnavailable, err)
	}

	c, err := ParseCritique(text)
	if err != nil {
		return failed(ReasonUnusable, err)
	}
	return ok(c)
}

type critiqueJSON struct {
	Score          *float64 `json:"score"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	Recommendation string   `json:"recommendation"`
}

// ParseCritique extracts a critique from raw model output. The output must
// contain a JSON object with a numeric score in [0,100].
func ParseCritique(raw string) (*Critique, error) {
	obj := llm.ExtractJSON(raw)
	if obj == "" {
		return nil, errors.New("no JSON object in model output")
	}

	var parsed critiqueJSON
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return nil, fmt.Errorf("invalid critique JSON: %w", err)
	}
	if parsed.Score == nil {
		return nil, errors.New("critique has no score")
	}
	score := *parsed.Score
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, fmt.Errorf("critique score %v outside [0,100]", score)
	}

	return &Critique{
		Score:          score,
		Strengths:      trimAll(parsed.Strengths),
		Improvements:   trimAll(parsed.Improvements),
		Recommendation: strings.TrimSpace(parsed.Recommendation),
	}, nil
}

// Merge folds c into base: the score is the maximum of the two, strengths and
// improvements are unioned without duplicates in first-seen order, and the
// recommendation is appended to suggestions.
func Merge(base domain.Evaluation, c Critique) domain.Evaluation {
	out := base
	out.Score = math.Max(base.Score, c.Score)
	out.Strengths = union(base.Strengths, c.Strengths)
	out.Improvements = union(base.Improvements, c.Improvements)
	out.Suggestions = append([]string(nil), base.Suggestions...)
	if c.Recommendation != "" {
		out.Suggestions = union(out.Suggestions, []string{c.Recommendation})
	}
	out.AIAugmented = true
	return out
}

func (e *Evaluator) buildPrompt(q domain.Question, answer string) string {
	if e.counter != nil && e.answerBudget > 0 {
		if cut, truncated := e.counter.Truncate(answer, e.answerBudget); truncated {
			answer = cut + " [truncated]"
		}
	}

	var b strings.Builder
	b.WriteString("You are an interview coach. Score the answer from 0 to 100 and give 2 strengths and 2 improvements, ")
	b.WriteString("with one concise recommendation line. Respond with JSON using the keys: score, strengths, improvements, recommendation.\n")
	fmt.Fprintf(&b, "Category: %s\n", q.Category)
	if len(q.EvaluationCriteria) > 0 {
		fmt.Fprintf(&b, "Criteria: %s\n", strings.Join(q.EvaluationCriteria, "; "))
	}
	fmt.Fprintf(&b, "Question: %s\nAnswer: %s", q.Text, answer)
	return b.String()
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
