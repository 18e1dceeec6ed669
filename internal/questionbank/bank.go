// Package questionbank provides the static question catalog and the
// selection policy used to fill new sessions.
package questionbank

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

// Bank is an in-memory, read-only question catalog.
type Bank struct {
	questions []domain.Question

	mu  sync.Mutex
	rng *rand.Rand
}

// Ensure Bank implements the engine's QuestionBank port
var _ ports.QuestionBank = (*Bank)(nil)

// Option is a functional option for configuring a Bank.
type Option func(*Bank)

// WithSeed makes selection reproducible.
func WithSeed(seed int64) Option {
	return func(b *Bank) {
		b.rng = rand.New(rand.NewSource(seed))
	}
}

// WithQuestions replaces the built-in catalog.
func WithQuestions(questions []domain.Question) Option {
	return func(b *Bank) {
		b.questions = questions
	}
}

// New creates a bank over the default catalog and validates it.
func New(opts ...Option) (*Bank, error) {
	b := &Bank{
		questions: DefaultCatalog(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := validate(b.questions); err != nil {
		return nil, fmt.Errorf("invalid question catalog: %w", err)
	}
	return b, nil
}

func validate(questions []domain.Question) error {
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("question id cannot be empty")
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %q has no text", q.ID)
		}
		if q.Difficulty.Rank() < 0 {
			return fmt.Errorf("question %q has unnormalized difficulty %q", q.ID, q.Difficulty)
		}
		if _, ok := criteriaByCategory[q.Category]; !ok {
			return fmt.Errorf("question %q has unknown category %q", q.ID, q.Category)
		}
	}
	return nil
}

// Questions returns a copy of the catalog.
func (b *Bank) Questions() []domain.Question {
	return cloneAll(b.questions)
}

// Select draws count questions for topic and difficulty.
//
// Candidates are the questions whose category is in the topic's mix. They are
// ranked by difficulty distance (exact first, then lower before higher), each
// tier shuffled with the bank's source and interleaved across categories. When
// fewer than count distinct candidates exist the selection repeats from its start.
func (b *Bank) Select(ctx context.Context, topic string, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
	if count <= 0 {
		return nil, domain.ErrInvalidRequest("question count must be positive")
	}
	if difficulty.Rank() < 0 {
		return nil, domain.ErrInvalidRequest(fmt.Sprintf("unrecognized difficulty %q", difficulty)).
			WithCode(domain.ErrorCodeInvalidDifficulty)
	}

	mix := ResolveMix(topic)
	var candidates []domain.Question
	for _, q := range b.questions {
		if mix.includes(q.Category) {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNoQuestionsAvailable
	}

	var ordered []domain.Question
	b.mu.Lock()
	for _, tier := range difficultyTiers(difficulty) {
		var group []domain.Question
		for _, q := range candidates {
			if q.Difficulty == tier {
				group = append(group, q)
			}
		}
		b.rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })
		sort.SliceStable(group, func(i, j int) bool {
			return mix.prefers(group[i]) && !mix.prefers(group[j])
		})
		ordered = append(ordered, interleave(group, mix.Categories)...)
	}
	b.mu.Unlock()

	distinct := len(ordered)
	if distinct > count {
		distinct = count
	}
	selection := make([]domain.Question, 0, count)
	for i := 0; i < count; i++ {
		selection = append(selection, ordered[i%distinct])
	}
	return cloneAll(selection), nil
}

// difficultyTiers orders difficulties by distance from d, lower before higher.
func difficultyTiers(d domain.Difficulty) []domain.Difficulty {
	rank := d.Rank()
	tiers := []domain.Difficulty{d}
	for dist := 1; dist < len(domain.Difficulties); dist++ {
		for _, r := range []int{rank - dist, rank + dist} {
			if r >= 0 && r < len(domain.Difficulties) {
				tiers = append(tiers, domain.Difficulties[r])
			}
		}
	}
	return tiers
}

// interleave takes questions round-robin across categories in mix order,
// keeping each category's relative order.
func interleave(group []domain.Question, categories []domain.Category) []domain.Question {
	buckets := make(map[domain.Category][]domain.Question, len(categories))
	for _, q := range group {
		buckets[q.Category] = append(buckets[q.Category], q)
	}
	out := make([]domain.Question, 0, len(group))
	for len(out) < len(group) {
		for _, c := range categories {
			if len(buckets[c]) == 0 {
				continue
			}
			out = append(out, buckets[c][0])
			buckets[c] = buckets[c][1:]
		}
	}
	return out
}

func cloneAll(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, len(qs))
	for i, q := range qs {
		q.ExpectedKeywords = append([]string(nil), q.ExpectedKeywords...)
		q.EvaluationCriteria = append([]string(nil), q.EvaluationCriteria...)
		out[i] = q
	}
	return out
}
