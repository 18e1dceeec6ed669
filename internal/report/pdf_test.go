package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		report *domain.FinalReport
	}{
		{
			name: "full report",
			report: &domain.FinalReport{
				SessionID:      "s-1",
				Topic:          "Software Engineer",
				Difficulty:     domain.DifficultyMedium,
				TotalQuestions: 2,
				OverallScore:   71.25,
				CategoryBreakdown: map[domain.Category]float64{
					domain.CategoryTechnical:    80,
					domain.CategorySystemDesign: 62.5,
				},
				QuestionScores: []domain.QuestionScore{
					{QuestionID: "t1", Question: strings.Repeat("How would you design a résumé parser? ", 5), Score: 80, AIAugmented: true},
					{QuestionID: "s1", Question: "Design a URL shortener.", Score: 62.5},
				},
				ConsolidatedStrengths:    []string{"Good technical knowledge demonstrated"},
				ConsolidatedImprovements: []string{"Provide more detailed explanation"},
				Recommendations: domain.Recommendations{
					ImmediateActions: []string{"Work on structuring your answers better"},
					NextSteps:        []string{"Schedule regular mock interview sessions"},
				},
				AISummary:       "Strong fundamentals; tighten system design trade-offs.",
				CompletedAt:     time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
				DurationMinutes: 30,
			},
		},
		{
			name:   "empty report",
			report: &domain.FinalReport{SessionID: "s-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, tt.report); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			out := buf.Bytes()
			if !bytes.HasPrefix(out, []byte("%PDF-")) {
				t.Errorf("output does not start with a PDF header: %q", out[:min(len(out), 16)])
			}
			if !bytes.Contains(out, []byte("%%EOF")) {
				t.Error("output is missing the PDF trailer")
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q, want short", got)
	}
	if got := truncate("abcdefghijkl", 8); got != "abcde..." {
		t.Errorf("truncate() = %q, want abcde...", got)
	}
}
