package domain

import (
	"maps"
	"time"
)

// QuestionScore is one row of the per-question breakdown in a FinalReport.
type QuestionScore struct {
	QuestionID  string   `json:"question_id" bson:"question_id"`
	Question    string   `json:"question" bson:"question"`
	Category    Category `json:"category" bson:"category"`
	Score       float64  `json:"score" bson:"score"`
	AIAugmented bool     `json:"ai_augmented" bson:"ai_augmented"`
}

// Recommendations are follow-up actions derived from the overall score.
type Recommendations struct {
	ImmediateActions    []string `json:"immediate_actions" bson:"immediate_actions"`
	StudyResources      []string `json:"study_resources" bson:"study_resources"`
	PracticeSuggestions []string `json:"practice_suggestions" bson:"practice_suggestions"`
	NextSteps           []string `json:"next_steps" bson:"next_steps"`
}

// FinalReport is produced exactly once, when a session completes.
type FinalReport struct {
	SessionID                string               `json:"session_id" bson:"session_id"`
	UserID                   string               `json:"user_id" bson:"user_id"`
	Topic                    string               `json:"topic" bson:"topic"`
	Difficulty               Difficulty           `json:"difficulty" bson:"difficulty"`
	TotalQuestions           int                  `json:"total_questions" bson:"total_questions"`
	OverallScore             float64              `json:"overall_score" bson:"overall_score"`
	CategoryBreakdown        map[Category]float64 `json:"category_breakdown" bson:"category_breakdown"`
	QuestionScores           []QuestionScore      `json:"question_scores" bson:"question_scores"`
	ConsolidatedStrengths    []string             `json:"consolidated_strengths" bson:"consolidated_strengths"`
	ConsolidatedImprovements []string             `json:"consolidated_improvements" bson:"consolidated_improvements"`
	Recommendations          Recommendations      `json:"recommendations" bson:"recommendations"`
	AISummary                string               `json:"ai_summary,omitempty" bson:"ai_summary,omitempty"`
	StartedAt                time.Time            `json:"started_at" bson:"started_at"`
	CompletedAt              time.Time            `json:"completed_at" bson:"completed_at"`
	DurationMinutes          int                  `json:"duration_minutes" bson:"duration_minutes"`
}

// Clone returns a deep copy of the report.
func (r FinalReport) Clone() FinalReport {
	r.CategoryBreakdown = maps.Clone(r.CategoryBreakdown)
	r.QuestionScores = append([]QuestionScore(nil), r.QuestionScores...)
	r.ConsolidatedStrengths = append([]string(nil), r.ConsolidatedStrengths...)
	r.ConsolidatedImprovements = append([]string(nil), r.ConsolidatedImprovements...)
	r.Recommendations = Recommendations{
		ImmediateActions:    append([]string(nil), r.Recommendations.ImmediateActions...),
		StudyResources:      append([]string(nil), r.Recommendations.StudyResources...),
		PracticeSuggestions: append([]string(nil), r.Recommendations.PracticeSuggestions...),
		NextSteps:           append([]string(nil), r.Recommendations.NextSteps...),
	}
	return r
}

// SessionResult is the durable record written once per completed session.
type SessionResult struct {
	SessionID string       `json:"session_id"`
	UserID    string       `json:"user_id"`
	Report    *FinalReport `json:"final_report"`
	// Transcript is the completed session, kept so GetSession can serve it after eviction.
	Transcript *Session  `json:"transcript,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Insights summarize a user's history of completed sessions.
type Insights struct {
	UserID                string               `json:"user_id"`
	TotalSessions         int                  `json:"total_sessions"`
	AverageScore          float64              `json:"average_score"`
	BestScore             float64              `json:"best_score"`
	LatestScore           float64              `json:"latest_score"`
	PerformanceByCategory map[Category]float64 `json:"performance_by_category"`
	ImprovementTrend      string               `json:"improvement_trend"`
	RecommendedFocus      string               `json:"recommended_focus"`
}
