package domain

import (
	"time"
)

// LifecycleEvent represents a high-level lifecycle event for a session.
// These events are published to event buses for decoupled consumers (analytics, notifications, etc.).
type LifecycleEvent struct {
	Type      LifecycleEventType `json:"type"`
	SessionID string             `json:"session_id"`
	UserID    string             `json:"user_id"`
	Timestamp time.Time          `json:"timestamp"`
	Data      interface{}        `json:"data"`
}

// LifecycleEventType identifies the type of lifecycle event.
type LifecycleEventType string

const (
	LifecycleEventStarted   LifecycleEventType = "session.started"
	LifecycleEventEvaluated LifecycleEventType = "answer.evaluated"
	LifecycleEventCompleted LifecycleEventType = "session.completed"
)

// LifecycleStartedData contains data for session.started events.
type LifecycleStartedData struct {
	Topic          string     `json:"topic"`
	Difficulty     Difficulty `json:"difficulty"`
	TotalQuestions int        `json:"total_questions"`
}

// LifecycleEvaluatedData contains data for answer.evaluated events.
type LifecycleEvaluatedData struct {
	QuestionID  string   `json:"question_id"`
	Category    Category `json:"category"`
	Score       float64  `json:"score"`
	AIAugmented bool     `json:"ai_augmented"`
	Index       int      `json:"index"`
}

// LifecycleCompletedData contains data for session.completed events.
type LifecycleCompletedData struct {
	OverallScore    float64 `json:"overall_score"`
	DurationMinutes int     `json:"duration_minutes"`
	Persisted       bool    `json:"persisted"`
}
