package session

import (
	"time"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

// consolidateLimit bounds ConsolidatedStrengths and ConsolidatedImprovements.
const consolidateLimit = 5

var studyResources = map[domain.Category][]string{
	domain.CategoryTechnical: {
		"LeetCode for coding practice",
		"System Design Interview book",
		"Technical interview preparation courses",
	},
	domain.CategoryBehavioral: {
		"STAR method practice guides",
		"Behavioral interview question banks",
		"Leadership and teamwork resources",
	},
	domain.CategorySystemDesign: {
		"System Design Interview book",
		"Designing Data-Intensive Applications",
		"Architecture case studies from engineering blogs",
	},
}

var practiceSuggestions = []string{
	"Practice with a timer to improve time management",
	"Record yourself answering questions",
	"Get feedback from peers or mentors",
}

var nextSteps = []string{
	"Schedule regular mock interview sessions",
	"Focus on your weakest areas identified in this session",
	"Practice with different question types and difficulties",
}

// Finalize builds the FinalReport for a session whose questions have all
// been answered. s.CompletedAt must be set; a nil CompletedAt is treated as
// StartedAt. Finalize does not modify s.
func Finalize(s *domain.Session) domain.FinalReport {
	completed := s.StartedAt
	if s.CompletedAt != nil {
		completed = *s.CompletedAt
	}

	r := domain.FinalReport{
		SessionID:         s.ID,
		UserID:            s.UserID,
		Topic:             s.Topic,
		Difficulty:        s.Difficulty,
		TotalQuestions:    len(s.Questions),
		CategoryBreakdown: make(map[domain.Category]float64),
		QuestionScores:    make([]domain.QuestionScore, 0, len(s.Evaluations)),
		StartedAt:         s.StartedAt,
		CompletedAt:       completed,
		DurationMinutes:   durationMinutes(s.StartedAt, completed),
	}

	var (
		total        float64
		sums         = make(map[domain.Category]float64)
		counts       = make(map[domain.Category]int)
		strengths    []string
		improvements []string
	)
	for i, ev := range s.Evaluations {
		category := ev.Category
		text := ""
		if i < len(s.Questions) {
			category = s.Questions[i].Category
			text = s.Questions[i].Text
		}
		total += ev.Score
		sums[category] += ev.Score
		counts[category]++

		r.QuestionScores = append(r.QuestionScores, domain.QuestionScore{
			QuestionID:  ev.QuestionID,
			Question:    text,
			Category:    category,
			Score:       ev.Score,
			AIAugmented: ev.AIAugmented,
		})
		strengths = append(strengths, ev.Strengths...)
		improvements = append(improvements, ev.Improvements...)
	}

	if n := len(s.Evaluations); n > 0 {
		r.OverallScore = total / float64(n)
	}
	for c, sum := range sums {
		r.CategoryBreakdown[c] = sum / float64(counts[c])
	}
	r.ConsolidatedStrengths = topByFrequency(strengths, consolidateLimit)
	r.ConsolidatedImprovements = topByFrequency(improvements, consolidateLimit)
	r.Recommendations = recommend(r.OverallScore, dominantCategory(s.Questions))
	return r
}

// topByFrequency returns up to n distinct items ordered by descending
// frequency; ties keep first-occurrence order.
func topByFrequency(items []string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, it := range items {
		if counts[it] == 0 {
			order = append(order, it)
		}
		counts[it]++
	}

	// Insertion sort keeps equal counts stable in first-seen order.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && counts[order[j]] > counts[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// dominantCategory is the most frequent question category, ties going to
// the one asked first.
func dominantCategory(questions []domain.Question) domain.Category {
	counts := make(map[domain.Category]int)
	for _, q := range questions {
		counts[q.Category]++
	}
	var best domain.Category
	for _, q := range questions {
		if best == "" || counts[q.Category] > counts[best] {
			best = q.Category
		}
	}
	return best
}

func recommend(score float64, dominant domain.Category) domain.Recommendations {
	var immediate []string
	switch {
	case score < 60:
		immediate = []string{
			"Focus on fundamental concepts in your field",
			"Practice explaining technical concepts clearly",
			"Prepare specific examples for behavioral questions",
		}
	case score < 80:
		immediate = []string{
			"Continue practicing with more challenging questions",
			"Work on structuring your answers better",
			"Prepare more detailed examples",
		}
	default:
		immediate = []string{
			"Great job! Continue practicing to maintain your skills",
			"Consider helping others practice interviews",
			"Focus on advanced topics and edge cases",
		}
	}

	return domain.Recommendations{
		ImmediateActions:    immediate,
		StudyResources:      append([]string{}, studyResources[dominant]...),
		PracticeSuggestions: append([]string(nil), practiceSuggestions...),
		NextSteps:           append([]string(nil), nextSteps...),
	}
}

func durationMinutes(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
