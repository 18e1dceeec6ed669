package questionbank

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

type scriptedModel struct {
	mu      sync.Mutex
	replies []string
	err     error
	block   bool
	prompts []string
}

func (m *scriptedModel) Generate(ctx context.Context, prompt string, params ports.GenerateParams) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	n := len(m.prompts)
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.replies[(n-1)%len(m.replies)], nil
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type bankFunc func(ctx context.Context, topic string, difficulty domain.Difficulty, count int) ([]domain.Question, error)

func (f bankFunc) Select(ctx context.Context, topic string, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
	return f(ctx, topic, difficulty, count)
}

const goodReply = "```json\n" + `{"question": "How would you shard a write-heavy table?",
"key_points": ["Partition key", "rebalancing", " hot spots ", "partition key"],
"evaluation_criteria": ["Trade-off awareness"],
"sample_answer": "Pick a high-cardinality key."}` + "\n```"

func seededBank(t *testing.T) *Bank {
	t.Helper()
	b, err := New(WithSeed(7))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerator_ReplacesEverySlot(t *testing.T) {
	model := &scriptedModel{replies: []string{goodReply}}
	g := NewGenerator(model, seededBank(t), WithGeneratorLogger(quietLogger()))

	want, err := seededBank(t).Select(context.Background(), "Software Engineer", domain.DifficultyMedium, 3)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	got, err := g.Select(context.Background(), "Software Engineer", domain.DifficultyMedium, 3)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Select() returned %d questions, want 3", len(got))
	}
	for i, q := range got {
		if !strings.HasPrefix(q.ID, "gen-") {
			t.Errorf("question %d id = %q, want generated id", i, q.ID)
		}
		if q.Category != want[i].Category {
			t.Errorf("question %d category = %q, want slot category %q", i, q.Category, want[i].Category)
		}
		if q.Difficulty != domain.DifficultyMedium || q.Topic != "Software Engineer" {
			t.Errorf("question %d = %+v, want medium Software Engineer question", i, q)
		}
		wantKeywords := []string{"partition key", "rebalancing", "hot spots"}
		if !reflect.DeepEqual(q.ExpectedKeywords, wantKeywords) {
			t.Errorf("question %d keywords = %v, want %v", i, q.ExpectedKeywords, wantKeywords)
		}
	}
	if got[0].ID == got[1].ID {
		t.Errorf("generated ids repeat: %q", got[0].ID)
	}
	if model.calls() != 3 {
		t.Errorf("model calls = %d, want 3", model.calls())
	}
	if !strings.Contains(model.prompts[1], "How would you shard") {
		t.Errorf("second prompt does not list the earlier question:\n%s", model.prompts[1])
	}
}

func TestGenerator_FallsBack(t *testing.T) {
	tests := []struct {
		name      string
		model     *scriptedModel
		wantCalls int
	}{
		{name: "model error", model: &scriptedModel{err: errors.New("503 from upstream")}, wantCalls: 1},
		{name: "timeout", model: &scriptedModel{block: true}, wantCalls: 1},
		{name: "invalid JSON", model: &scriptedModel{replies: []string{"I'd rather not."}}, wantCalls: 3},
		{name: "empty question", model: &scriptedModel{replies: []string{`{"question": "  "}`}}, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := seededBank(t).Select(context.Background(), "technical", domain.DifficultyMedium, 3)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}

			g := NewGenerator(tt.model, seededBank(t),
				WithGeneratorTimeout(20*time.Millisecond),
				WithGeneratorLogger(quietLogger()))
			got, err := g.Select(context.Background(), "technical", domain.DifficultyMedium, 3)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if !reflect.DeepEqual(ids(got), ids(want)) {
				t.Errorf("Select() = %v, want catalog questions %v", ids(got), ids(want))
			}
			if tt.model.calls() != tt.wantCalls {
				t.Errorf("model calls = %d, want %d", tt.model.calls(), tt.wantCalls)
			}
		})
	}
}

func TestGenerator_MixesGeneratedAndCatalog(t *testing.T) {
	model := &scriptedModel{replies: []string{goodReply, "not json", goodReply}}
	g := NewGenerator(model, seededBank(t), WithGeneratorLogger(quietLogger()))

	want, err := seededBank(t).Select(context.Background(), "technical", domain.DifficultyMedium, 3)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	got, err := g.Select(context.Background(), "technical", domain.DifficultyMedium, 3)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	if !strings.HasPrefix(got[0].ID, "gen-") || !strings.HasPrefix(got[2].ID, "gen-") {
		t.Errorf("Select() = %v, want generated first and last", ids(got))
	}
	if got[1].ID != want[1].ID {
		t.Errorf("Select()[1] = %q, want catalog question %q", got[1].ID, want[1].ID)
	}
}

func TestGenerator_FallbackErrorsPropagate(t *testing.T) {
	model := &scriptedModel{replies: []string{goodReply}}
	fallback := bankFunc(func(ctx context.Context, topic string, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
		return nil, domain.ErrNoQuestionsAvailable
	})
	g := NewGenerator(model, fallback, WithGeneratorLogger(quietLogger()))

	if _, err := g.Select(context.Background(), "astronomy", domain.DifficultyEasy, 3); !errors.Is(err, domain.ErrNoQuestionsAvailable) {
		t.Errorf("Select() error = %v, want ErrNoQuestionsAvailable", err)
	}
	if model.calls() != 0 {
		t.Errorf("model calls = %d, want 0", model.calls())
	}
}

func TestGenerator_NilModelUsesFallback(t *testing.T) {
	g := NewGenerator(nil, seededBank(t))
	want, err := seededBank(t).Select(context.Background(), "technical", domain.DifficultyEasy, 2)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	got, err := g.Select(context.Background(), "technical", domain.DifficultyEasy, 2)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !reflect.DeepEqual(ids(got), ids(want)) {
		t.Errorf("Select() = %v, want %v", ids(got), ids(want))
	}
}

func TestParseGeneratedQuestion(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "fenced", raw: goodReply, want: "How would you shard a write-heavy table?"},
		{name: "surrounded by prose", raw: `Sure! {"question": "Why use a mutex?"} Hope that helps.`, want: "Why use a mutex?"},
		{name: "no object", raw: "no json here", wantErr: true},
		{name: "malformed", raw: `{"question": 42}`, wantErr: true},
		{name: "blank question", raw: `{"question": ""}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGeneratedQuestion(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGeneratedQuestion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Text != tt.want {
				t.Errorf("ParseGeneratedQuestion() text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	asked := []string{
		"first question",
		"second question",
		"third question",
		strings.Repeat("long ", 20),
	}
	got := buildQuestionPrompt("Data Engineer", domain.DifficultyHard, domain.CategorySystemDesign, 5, 5, asked)

	for _, want := range []string{"Data Engineer", "question 5 of 5", "hard", "system design", "second question", "..."} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "first question") {
		t.Errorf("prompt lists more than the last %d questions:\n%s", priorQuestions, got)
	}
}
