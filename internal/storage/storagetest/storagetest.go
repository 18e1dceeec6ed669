// Package storagetest is a conformance suite run by every ResultStore's tests.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
	"github.com/tjfontaine/interview-coach/internal/storage"
)

// Result builds a completed session result for tests.
func Result(sessionID, userID string, score float64, completedAt time.Time) *domain.SessionResult {
	started := completedAt.Add(-7 * time.Minute)
	report := &domain.FinalReport{
		SessionID:      sessionID,
		UserID:         userID,
		Topic:          "Software Engineer",
		Difficulty:     domain.DifficultyMedium,
		TotalQuestions: 2,
		OverallScore:   score,
		CategoryBreakdown: map[domain.Category]float64{
			domain.CategoryTechnical:  score,
			domain.CategoryBehavioral: score,
		},
		QuestionScores: []domain.QuestionScore{
			{QuestionID: "py_001", Category: domain.CategoryTechnical, Score: score},
			{QuestionID: "beh_001", Category: domain.CategoryBehavioral, Score: score},
		},
		ConsolidatedStrengths:    []string{"Good use of STAR method structure"},
		ConsolidatedImprovements: []string{"Provide more detailed explanation"},
		StartedAt:                started,
		CompletedAt:              completedAt,
		DurationMinutes:          7,
	}
	transcript := &domain.Session{
		ID:           sessionID,
		UserID:       userID,
		Topic:        report.Topic,
		Difficulty:   report.Difficulty,
		Questions:    []domain.Question{{ID: "py_001", Category: domain.CategoryTechnical}, {ID: "beh_001", Category: domain.CategoryBehavioral}},
		CurrentIndex: 2,
		Answers: []domain.Answer{
			{QuestionID: "py_001", Text: "lists are mutable", SubmittedAt: started},
			{QuestionID: "beh_001", Text: "", SubmittedAt: completedAt},
		},
		Evaluations: []domain.Evaluation{
			{QuestionID: "py_001", Category: domain.CategoryTechnical, Score: score},
			{QuestionID: "beh_001", Category: domain.CategoryBehavioral, Score: score},
		},
		Status:      domain.SessionCompleted,
		StartedAt:   started,
		CompletedAt: &completedAt,
		Report:      report,
	}
	return &domain.SessionResult{
		SessionID:  sessionID,
		UserID:     userID,
		Report:     report,
		Transcript: transcript,
		CreatedAt:  completedAt,
	}
}

// Run exercises the ResultStore contract against a fresh store from newStore.
func Run(t *testing.T, newStore func(t *testing.T) ports.ResultStore) {
	t.Helper()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("save and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		want := Result("sess-1", "user-1", 72.5, base)
		if err := s.Save(ctx, want); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := s.Get(ctx, "sess-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.UserID != "user-1" {
			t.Errorf("UserID = %q, want user-1", got.UserID)
		}
		if got.Report == nil || got.Report.OverallScore != 72.5 {
			t.Fatalf("Report = %+v, want overall score 72.5", got.Report)
		}
		if got.Report.CategoryBreakdown[domain.CategoryBehavioral] != 72.5 {
			t.Errorf("CategoryBreakdown = %v", got.Report.CategoryBreakdown)
		}
		if !got.Report.CompletedAt.Equal(base) {
			t.Errorf("CompletedAt = %v, want %v", got.Report.CompletedAt, base)
		}
		if got.Transcript == nil || got.Transcript.Status != domain.SessionCompleted || len(got.Transcript.Answers) != 2 {
			t.Errorf("Transcript = %+v, want completed session with 2 answers", got.Transcript)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("save twice", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		if err := s.Save(ctx, Result("sess-dup", "user-1", 50, base)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		err := s.Save(ctx, Result("sess-dup", "user-1", 99, base))
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("second Save() error = %v, want ErrAlreadyExists", err)
		}
		got, err := s.Get(ctx, "sess-dup")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Report.OverallScore != 50 {
			t.Errorf("OverallScore = %v, want the first save to win", got.Report.OverallScore)
		}
	})

	t.Run("invalid result", func(t *testing.T) {
		s := newStore(t)
		if err := s.Save(context.Background(), &domain.SessionResult{SessionID: "x", UserID: "u"}); err == nil {
			t.Error("Save() without report error = nil, want error")
		}
	})

	t.Run("list by user newest first", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, r := range []*domain.SessionResult{
			Result("older", "user-2", 40, base),
			Result("newest", "user-2", 80, base.Add(2*time.Hour)),
			Result("middle", "user-2", 60, base.Add(time.Hour)),
			Result("other-user", "user-3", 90, base.Add(3*time.Hour)),
		} {
			if err := s.Save(ctx, r); err != nil {
				t.Fatalf("Save(%s) error = %v", r.SessionID, err)
			}
		}

		reports, err := s.ListByUser(ctx, "user-2")
		if err != nil {
			t.Fatalf("ListByUser() error = %v", err)
		}
		var got []string
		for _, r := range reports {
			got = append(got, r.SessionID)
		}
		want := []string{"newest", "middle", "older"}
		if len(got) != len(want) {
			t.Fatalf("ListByUser() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("ListByUser() = %v, want %v", got, want)
			}
		}

		none, err := s.ListByUser(ctx, "nobody")
		if err != nil {
			t.Fatalf("ListByUser() error = %v", err)
		}
		if len(none) != 0 {
			t.Errorf("ListByUser(nobody) = %v, want empty", none)
		}
	})
}
