package questionbank

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

func q(id string, c domain.Category, d domain.Difficulty) domain.Question {
	return domain.Question{ID: id, Text: "question " + id, Category: c, Difficulty: d}
}

func ids(qs []domain.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestNew_DefaultCatalogIsValid(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(b.Questions()) == 0 {
		t.Fatal("default catalog is empty")
	}
	for _, question := range b.Questions() {
		if len(question.EvaluationCriteria) == 0 {
			t.Errorf("question %s has no evaluation criteria", question.ID)
		}
	}
}

func TestNew_RejectsInvalidCatalog(t *testing.T) {
	tests := []struct {
		name      string
		questions []domain.Question
	}{
		{name: "duplicate id", questions: []domain.Question{
			q("a", domain.CategoryTechnical, domain.DifficultyEasy),
			q("a", domain.CategoryTechnical, domain.DifficultyHard),
		}},
		{name: "empty id", questions: []domain.Question{q("", domain.CategoryTechnical, domain.DifficultyEasy)}},
		{name: "alias difficulty", questions: []domain.Question{q("a", domain.CategoryTechnical, "beginner")}},
		{name: "unknown category", questions: []domain.Question{q("a", "trivia", domain.DifficultyEasy)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(WithQuestions(tt.questions)); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestSelect_PrefersExactDifficulty(t *testing.T) {
	b, err := New(WithSeed(7), WithQuestions([]domain.Question{
		q("t-easy", domain.CategoryTechnical, domain.DifficultyEasy),
		q("t-med-1", domain.CategoryTechnical, domain.DifficultyMedium),
		q("t-med-2", domain.CategoryTechnical, domain.DifficultyMedium),
		q("t-hard", domain.CategoryTechnical, domain.DifficultyHard),
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := b.Select(context.Background(), "technical", domain.DifficultyMedium, 2)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	for _, question := range got {
		if question.Difficulty != domain.DifficultyMedium {
			t.Errorf("Select() returned %s (%s), want only medium questions", question.ID, question.Difficulty)
		}
	}
}

func TestSelect_WidensLowerBeforeHigher(t *testing.T) {
	b, err := New(WithSeed(1), WithQuestions([]domain.Question{
		q("t-easy", domain.CategoryTechnical, domain.DifficultyEasy),
		q("t-med", domain.CategoryTechnical, domain.DifficultyMedium),
		q("t-hard", domain.CategoryTechnical, domain.DifficultyHard),
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := b.Select(context.Background(), "technical", domain.DifficultyMedium, 3)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	want := []string{"t-med", "t-easy", "t-hard"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Select() = %v, want %v", ids(got), want)
	}
}

func TestSelect_RepeatsWhenCatalogIsShort(t *testing.T) {
	b, err := New(WithSeed(3), WithQuestions([]domain.Question{
		q("b1", domain.CategoryBehavioral, domain.DifficultyMedium),
		q("b2", domain.CategoryBehavioral, domain.DifficultyMedium),
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := b.Select(context.Background(), "behavioral", domain.DifficultyMedium, 5)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len(Select()) = %d, want 5", len(got))
	}
	for i := 2; i < len(got); i++ {
		if got[i].ID != got[i-2].ID {
			t.Errorf("got[%d] = %s, want cyclic repeat of %s", i, got[i].ID, got[i-2].ID)
		}
	}
}

func TestSelect_SeedIsDeterministic(t *testing.T) {
	first, _ := New(WithSeed(42))
	second, _ := New(WithSeed(42))

	a, err := first.Select(context.Background(), "Software Engineer", domain.DifficultyMedium, 5)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	b, err := second.Select(context.Background(), "Software Engineer", domain.DifficultyMedium, 5)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !reflect.DeepEqual(ids(a), ids(b)) {
		t.Errorf("same seed produced %v and %v", ids(a), ids(b))
	}
}

func TestSelect_MixedTopicInterleavesCategories(t *testing.T) {
	b, err := New(WithSeed(9), WithQuestions([]domain.Question{
		q("t1", domain.CategoryTechnical, domain.DifficultyMedium),
		q("t2", domain.CategoryTechnical, domain.DifficultyMedium),
		q("b1", domain.CategoryBehavioral, domain.DifficultyMedium),
		q("s1", domain.CategorySystemDesign, domain.DifficultyMedium),
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := b.Select(context.Background(), "mixed", domain.DifficultyMedium, 3)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	wantCats := []domain.Category{domain.CategoryTechnical, domain.CategoryBehavioral, domain.CategorySystemDesign}
	for i, question := range got {
		if question.Category != wantCats[i] {
			t.Errorf("got[%d].Category = %s, want %s", i, question.Category, wantCats[i])
		}
	}
}

func TestSelect_NoQuestionsAvailable(t *testing.T) {
	b, err := New(WithQuestions([]domain.Question{
		q("t1", domain.CategoryTechnical, domain.DifficultyEasy),
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = b.Select(context.Background(), "behavioral", domain.DifficultyEasy, 5)
	if !errors.Is(err, domain.ErrNoQuestionsAvailable) {
		t.Errorf("Select() error = %v, want ErrNoQuestionsAvailable", err)
	}
}

func TestSelect_RejectsBadArguments(t *testing.T) {
	b, _ := New()
	if _, err := b.Select(context.Background(), "technical", domain.DifficultyEasy, 0); err == nil {
		t.Error("Select(count=0) error = nil, want error")
	}
	if _, err := b.Select(context.Background(), "technical", "intermediate", 3); err == nil {
		t.Error("Select(unnormalized difficulty) error = nil, want error")
	}
}

func TestSelect_ReturnsCopies(t *testing.T) {
	b, _ := New(WithSeed(1))
	got, err := b.Select(context.Background(), "technical", domain.DifficultyEasy, 1)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	got[0].ExpectedKeywords[0] = "mutated"

	for _, question := range b.Questions() {
		for _, kw := range question.ExpectedKeywords {
			if kw == "mutated" {
				t.Fatal("Select() leaked catalog storage")
			}
		}
	}
}

func TestResolveMix(t *testing.T) {
	tests := []struct {
		topic     string
		want      []domain.Category
		preferred string
	}{
		{topic: "technical", want: []domain.Category{domain.CategoryTechnical}},
		{topic: "Behavioural", want: []domain.Category{domain.CategoryBehavioral}},
		{topic: "system design", want: []domain.Category{domain.CategorySystemDesign}},
		{topic: "system_design", want: []domain.Category{domain.CategorySystemDesign}},
		{topic: "Software Engineer", want: allCategories, preferred: "general"},
		{topic: "Python technical", want: []domain.Category{domain.CategoryTechnical}, preferred: "python"},
		{topic: "Data Scientist", want: allCategories, preferred: "data_science"},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			mix := ResolveMix(tt.topic)
			if !reflect.DeepEqual(mix.Categories, tt.want) {
				t.Errorf("Categories = %v, want %v", mix.Categories, tt.want)
			}
			if tt.preferred != "" && !mix.Preferred[tt.preferred] {
				t.Errorf("Preferred = %v, want %s", mix.Preferred, tt.preferred)
			}
		})
	}
}
