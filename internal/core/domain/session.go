package domain

import (
	"time"
)

// Category groups questions by the kind of heuristic that scores them.
type Category string

const (
	CategoryTechnical    Category = "technical"
	CategoryBehavioral   Category = "behavioral"
	CategorySystemDesign Category = "system_design"
)

// Question is an immutable snapshot drawn from the question bank.
type Question struct {
	ID                 string     `json:"id" bson:"id"`
	Text               string     `json:"text" bson:"text"`
	Category           Category   `json:"category" bson:"category"`
	Subcategory        string     `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Topic              string     `json:"topic,omitempty" bson:"topic,omitempty"`
	Difficulty         Difficulty `json:"difficulty" bson:"difficulty"`
	ExpectedKeywords   []string   `json:"expected_keywords" bson:"expected_keywords"`
	EvaluationCriteria []string   `json:"evaluation_criteria" bson:"evaluation_criteria"`
	SampleAnswer       string     `json:"sample_answer,omitempty" bson:"sample_answer,omitempty"`
}

// KeywordAnalysis records which expected keywords an answer mentioned.
type KeywordAnalysis struct {
	Expected []string `json:"expected" bson:"expected"`
	Found    []string `json:"found" bson:"found"`
	Missing  []string `json:"missing" bson:"missing"`
	// Coverage is |Found| / |Expected| in [0,1]; zero when nothing is expected.
	Coverage float64 `json:"coverage" bson:"coverage"`
}

// Evaluation is the scored feedback for one answered question.
type Evaluation struct {
	QuestionID      string          `json:"question_id" bson:"question_id"`
	Category        Category        `json:"category" bson:"category"`
	Score           float64         `json:"score" bson:"score"`
	KeywordScore    float64         `json:"keyword_score" bson:"keyword_score"`
	StructureScore  float64         `json:"structure_score" bson:"structure_score"`
	WordCount       int             `json:"word_count" bson:"word_count"`
	Strengths       []string        `json:"strengths" bson:"strengths"`
	Improvements    []string        `json:"improvements" bson:"improvements"`
	Suggestions     []string        `json:"suggestions,omitempty" bson:"suggestions,omitempty"`
	KeywordAnalysis KeywordAnalysis `json:"keyword_analysis" bson:"keyword_analysis"`
	AIAugmented     bool            `json:"ai_augmented" bson:"ai_augmented"`
}

// Answer is a submitted answer and when it arrived.
type Answer struct {
	QuestionID  string    `json:"question_id" bson:"question_id"`
	Text        string    `json:"text" bson:"text"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
}

// SessionStatus is monotonic: ACTIVE may become COMPLETED, never the reverse.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// Session is one question/answer interaction for a user.
//
// Answers and Evaluations are parallel, append-only slices ordered like
// Questions; len(Answers) == len(Evaluations) == CurrentIndex at all times.
// They are slices rather than maps keyed by question id because the bank may
// repeat a question when it cannot fill a session with distinct ones.
type Session struct {
	ID           string        `json:"session_id" bson:"session_id"`
	UserID       string        `json:"user_id" bson:"user_id"`
	Topic        string        `json:"topic" bson:"topic"`
	Difficulty   Difficulty    `json:"difficulty" bson:"difficulty"`
	Questions    []Question    `json:"questions" bson:"questions"`
	CurrentIndex int           `json:"current_index" bson:"current_index"`
	Answers      []Answer      `json:"answers" bson:"answers"`
	Evaluations  []Evaluation  `json:"evaluations" bson:"evaluations"`
	Status       SessionStatus `json:"status" bson:"status"`
	StartedAt    time.Time     `json:"started_at" bson:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Report       *FinalReport  `json:"final_report,omitempty" bson:"final_report,omitempty"`
}

// CurrentQuestion returns the question awaiting an answer, or nil once every
// question has been answered.
func (s *Session) CurrentQuestion() *Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	q := s.Questions[s.CurrentIndex]
	return &q
}

// Clone returns a deep copy that callers may read without holding the session lock.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		c.Questions[i] = q.clone()
	}
	c.Answers = append([]Answer(nil), s.Answers...)
	c.Evaluations = make([]Evaluation, len(s.Evaluations))
	for i, e := range s.Evaluations {
		c.Evaluations[i] = e.clone()
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	if s.Report != nil {
		r := s.Report.Clone()
		c.Report = &r
	}
	return &c
}

func (q Question) clone() Question {
	q.ExpectedKeywords = append([]string(nil), q.ExpectedKeywords...)
	q.EvaluationCriteria = append([]string(nil), q.EvaluationCriteria...)
	return q
}

func (e Evaluation) clone() Evaluation {
	e.Strengths = append([]string(nil), e.Strengths...)
	e.Improvements = append([]string(nil), e.Improvements...)
	e.Suggestions = append([]string(nil), e.Suggestions...)
	e.KeywordAnalysis.Expected = append([]string(nil), e.KeywordAnalysis.Expected...)
	e.KeywordAnalysis.Found = append([]string(nil), e.KeywordAnalysis.Found...)
	e.KeywordAnalysis.Missing = append([]string(nil), e.KeywordAnalysis.Missing...)
	return e
}
