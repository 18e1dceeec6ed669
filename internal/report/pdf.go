// Package report renders FinalReports as PDF documents.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

const (
	lineHeight = 6.0
	pageWidth  = 190.0
)

// Render writes r to w as an A4 PDF.
func Render(w io.Writer, r *domain.FinalReport) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Interview report "+r.SessionID, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Interview Report: "+r.Topic), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	meta := fmt.Sprintf("Session %s | %s | %s difficulty | %d questions | %d minutes",
		r.SessionID, r.CompletedAt.Format("2006-01-02 15:04"), r.Difficulty, r.TotalQuestions, r.DurationMinutes)
	pdf.CellFormat(0, lineHeight, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 28)
	pdf.CellFormat(0, 14, fmt.Sprintf("%.1f / 100", r.OverallScore), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if r.AISummary != "" {
		heading(pdf, tr, "Summary")
		pdf.MultiCell(pageWidth, lineHeight, tr(r.AISummary), "", "L", false)
		pdf.Ln(2)
	}

	if len(r.CategoryBreakdown) > 0 {
		heading(pdf, tr, "By category")
		cats := make([]string, 0, len(r.CategoryBreakdown))
		for c := range r.CategoryBreakdown {
			cats = append(cats, string(c))
		}
		sort.Strings(cats)
		for _, c := range cats {
			label := strings.ReplaceAll(c, "_", " ")
			pdf.CellFormat(60, lineHeight, tr(label), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, lineHeight, fmt.Sprintf("%.1f", r.CategoryBreakdown[domain.Category(c)]), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	if len(r.QuestionScores) > 0 {
		heading(pdf, tr, "Questions")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(10, lineHeight, "#", "1", 0, "C", false, 0, "")
		pdf.CellFormat(145, lineHeight, "Question", "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, lineHeight, "Score", "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, lineHeight, "AI", "1", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for i, qs := range r.QuestionScores {
			ai := ""
			if qs.AIAugmented {
				ai = "yes"
			}
			pdf.CellFormat(10, lineHeight, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
			pdf.CellFormat(145, lineHeight, tr(truncate(qs.Question, 85)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, lineHeight, fmt.Sprintf("%.1f", qs.Score), "1", 0, "C", false, 0, "")
			pdf.CellFormat(15, lineHeight, ai, "1", 1, "C", false, 0, "")
		}
		pdf.Ln(2)
	}

	bullets(pdf, tr, "Strengths", r.ConsolidatedStrengths)
	bullets(pdf, tr, "Areas to improve", r.ConsolidatedImprovements)
	bullets(pdf, tr, "Immediate actions", r.Recommendations.ImmediateActions)
	bullets(pdf, tr, "Study resources", r.Recommendations.StudyResources)
	bullets(pdf, tr, "Practice suggestions", r.Recommendations.PracticeSuggestions)
	bullets(pdf, tr, "Next steps", r.Recommendations.NextSteps)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
}

func bullets(pdf *gofpdf.Fpdf, tr func(string) string, title string, items []string) {
	if len(items) == 0 {
		return
	}
	heading(pdf, tr, title)
	for _, it := range items {
		pdf.MultiCell(pageWidth, lineHeight, tr("- "+it), "", "L", false)
	}
	pdf.Ln(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
