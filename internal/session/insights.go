package session

import (
	"fmt"
	"sort"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

// Improvement trends.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
)

// BuildInsights summarizes reports, which must be ordered most recent first
// as returned by ResultStore.ListByUser.
func BuildInsights(userID string, reports []domain.FinalReport) domain.Insights {
	ins := domain.Insights{
		UserID:                userID,
		TotalSessions:         len(reports),
		PerformanceByCategory: make(map[domain.Category]float64),
		ImprovementTrend:      TrendStable,
	}
	if len(reports) == 0 {
		ins.RecommendedFocus = "Start with technical interviews"
		return ins
	}

	var total float64
	sums := make(map[domain.Category]float64)
	counts := make(map[domain.Category]int)
	ins.BestScore = reports[0].OverallScore
	for _, r := range reports {
		total += r.OverallScore
		if r.OverallScore > ins.BestScore {
			ins.BestScore = r.OverallScore
		}
		for c, score := range r.CategoryBreakdown {
			sums[c] += score
			counts[c]++
		}
	}
	ins.AverageScore = total / float64(len(reports))
	ins.LatestScore = reports[0].OverallScore
	for c, sum := range sums {
		ins.PerformanceByCategory[c] = sum / float64(counts[c])
	}

	if len(reports) > 1 && reports[0].OverallScore > reports[len(reports)-1].OverallScore {
		ins.ImprovementTrend = TrendImproving
	}
	ins.RecommendedFocus = recommendedFocus(ins.PerformanceByCategory)
	return ins
}

// recommendedFocus names the weakest category. Ties are broken by category
// name so the result does not depend on map order.
func recommendedFocus(byCategory map[domain.Category]float64) string {
	if len(byCategory) == 0 {
		return "Start with technical interviews"
	}
	cats := make([]domain.Category, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	weakest := cats[0]
	for _, c := range cats[1:] {
		if byCategory[c] < byCategory[weakest] {
			weakest = c
		}
	}

	switch score := byCategory[weakest]; {
	case score < 60:
		return fmt.Sprintf("Focus on improving %s interview skills", weakest)
	case score < 80:
		return fmt.Sprintf("Continue practicing %s interviews", weakest)
	default:
		return "Great performance! Consider advanced interview preparation"
	}
}
