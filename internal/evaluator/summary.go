package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

// Summarize asks the model for a short narrative of a finished session. It
// returns "" when no model is configured or the call fails.
func (e *Evaluator) Summarize(ctx context.Context, report *domain.FinalReport) string {
	if e.model == nil || report == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.model.Generate(ctx, summaryPrompt(report), ports.GenerateParams{
		Temperature: 0.5,
		MaxTokens:   250,
	})
	if err != nil {
		e.logger.Warn("session summary unavailable",
			slog.String("session_id", report.SessionID),
			slog.String("error", err.Error()),
		)
		return ""
	}
	return strings.TrimSpace(text)
}

func summaryPrompt(r *domain.FinalReport) string {
	var b strings.Builder
	b.WriteString("You are an interview coach. Write a short, encouraging summary (3-4 sentences) of this mock interview.\n")
	fmt.Fprintf(&b, "Topic: %s\nDifficulty: %s\nOverall score: %.1f/100\n", r.Topic, r.Difficulty, r.OverallScore)
	for _, c := range []domain.Category{domain.CategoryTechnical, domain.CategoryBehavioral, domain.CategorySystemDesign} {
		if s, ok := r.CategoryBreakdown[c]; ok {
			fmt.Fprintf(&b, "%s: %.1f\n", c, s)
		}
	}
	if len(r.ConsolidatedStrengths) > 0 {
		fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(r.ConsolidatedStrengths, "; "))
	}
	if len(r.ConsolidatedImprovements) > 0 {
		fmt.Fprintf(&b, "Improvements: %s\n", strings.Join(r.ConsolidatedImprovements, "; "))
	}
	return b.String()
}
