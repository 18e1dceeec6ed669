// Package session implements the interview session engine.
//
// The Engine owns live sessions in a table keyed by session id. Each live
// session has its own mutex so submissions to the same session are serialized
// while different sessions proceed in parallel. A session that completes is
// finalized under its lock, persisted after the lock is released, and evicted
// from the table once the ResultStore accepts it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
	"github.com/tjfontaine/interview-coach/internal/pkg/id"
	"github.com/tjfontaine/interview-coach/internal/storage"
)

const (
	// DefaultQuestionCount is the number of questions in a session.
	DefaultQuestionCount = 5
	// DefaultPersistTimeout bounds summary, save and archive of a finished session.
	DefaultPersistTimeout = 10 * time.Second
	// DefaultIdleTimeout is how long an active session may go without a
	// submission before it is dropped from the live table.
	DefaultIdleTimeout = 2 * time.Hour
)

var tracer = otel.Tracer("github.com/tjfontaine/interview-coach/internal/session")

// AnswerEvaluator scores one answer. Implementations must not fail; model
// problems degrade to a heuristic evaluation.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, q domain.Question, answer string) domain.Evaluation
}

// Summarizer writes an optional narrative for a finished report. It returns
// "" when no summary is available.
type Summarizer interface {
	Summarize(ctx context.Context, report *domain.FinalReport) string
}

// SubmitResult is the outcome of one accepted answer.
type SubmitResult struct {
	SessionID  string            `json:"session_id"`
	Evaluation domain.Evaluation `json:"evaluation"`
	// NextQuestion is nil once the session is complete.
	NextQuestion *domain.Question `json:"next_question,omitempty"`
	// Report is set only on the answer that completes the session.
	Report        *domain.FinalReport `json:"final_report,omitempty"`
	Completed     bool                `json:"completed"`
	QuestionIndex int                 `json:"question_index"`
	Total         int                 `json:"total_questions"`
}

// PersistError reports a completed session whose report could not be saved.
// The report was computed and is carried here so it is not lost.
type PersistError struct {
	Report *domain.FinalReport
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("session %s completed but report was not persisted: %v", e.Report.SessionID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

type liveSession struct {
	mu sync.Mutex
	s  *domain.Session

	// lastActive is unix nanos of the last start or submission; done is set
	// once the session completes. Both are read by the idle sweep without mu.
	lastActive atomic.Int64
	done       atomic.Bool
}

func (ls *liveSession) touch(now time.Time) {
	ls.lastActive.Store(now.UnixNano())
}

func (ls *liveSession) idle(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 || ls.done.Load() {
		return false
	}
	return now.Sub(time.Unix(0, ls.lastActive.Load())) > ttl
}

// Engine runs interview sessions.
type Engine struct {
	bank      ports.QuestionBank
	evaluator AnswerEvaluator
	store     ports.ResultStore

	publisher  ports.EventPublisher
	archiver   ports.ReportArchiver
	summarizer Summarizer
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
	count      int

	persistTimeout time.Duration
	idleTimeout    time.Duration

	mu        sync.RWMutex
	live      map[string]*liveSession
	lastSweep time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		e.newID = gen
	}
}

// WithQuestionCount sets the fixed number of questions per session.
func WithQuestionCount(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.count = n
		}
	}
}

// WithEventPublisher publishes lifecycle events to p.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithArchiver copies persisted reports to a.
func WithArchiver(a ports.ReportArchiver) Option {
	return func(e *Engine) {
		e.archiver = a
	}
}

// WithSummarizer attaches an AI summary to each report before it is saved.
func WithSummarizer(s Summarizer) Option {
	return func(e *Engine) {
		e.summarizer = s
	}
}

// WithPersistTimeout bounds the work done after the final answer: summary,
// save, archive and the completed event. It runs detached from the caller's
// context so a disconnecting client does not lose the report.
func WithPersistTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.persistTimeout = d
		}
	}
}

// WithIdleTimeout sets how long an active session may sit without a
// submission before it expires. Zero or negative disables expiry.
func WithIdleTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.idleTimeout = d
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine.
func New(bank ports.QuestionBank, evaluator AnswerEvaluator, store ports.ResultStore, opts ...Option) *Engine {
	e := &Engine{
		bank:      bank,
		evaluator: evaluator,
		store:     store,
		logger:    slog.Default(),
		now:       time.Now,
		newID:     id.New,
		count:     DefaultQuestionCount,
		live:      make(map[string]*liveSession),

		persistTimeout: DefaultPersistTimeout,
		idleTimeout:    DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartSession creates a session and returns a snapshot of it together with
// its first question. An empty userID is replaced by a generated one.
func (e *Engine) StartSession(ctx context.Context, userID, topic, difficulty string) (*domain.Session, *domain.Question, error) {
	ctx, span := tracer.Start(ctx, "session.start",
		trace.WithAttributes(attribute.String("session.topic", topic)))
	defer span.End()

	topic = strings.TrimSpace(topic)
	if topic == "" {
		err := domain.ErrInvalidRequest("topic is required").WithCode(domain.ErrorCodeInvalidTopic)
		recordError(span, err)
		return nil, nil, err
	}
	diff, err := domain.ParseDifficulty(difficulty)
	if err != nil {
		recordError(span, err)
		return nil, nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = id.NewUser()
	}

	questions, err := e.bank.Select(ctx, topic, diff, e.count)
	if err != nil {
		recordError(span, err)
		return nil, nil, err
	}
	if len(questions) == 0 {
		recordError(span, domain.ErrNoQuestionsAvailable)
		return nil, nil, domain.ErrNoQuestionsAvailable
	}

	s := &domain.Session{
		ID:          e.newID(),
		UserID:      userID,
		Topic:       topic,
		Difficulty:  diff,
		Questions:   questions,
		Answers:     []domain.Answer{},
		Evaluations: []domain.Evaluation{},
		Status:      domain.SessionActive,
		StartedAt:   e.now(),
	}

	ls := &liveSession{s: s}
	ls.touch(s.StartedAt)

	e.mu.Lock()
	e.sweepIdleLocked(s.StartedAt)
	e.live[s.ID] = ls
	e.mu.Unlock()

	snapshot := s.Clone()
	span.SetAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("session.questions", len(questions)),
	)
	e.logger.Info("session started",
		slog.String("session_id", s.ID),
		slog.String("user_id", userID),
		slog.String("topic", topic),
		slog.String("difficulty", string(diff)),
		slog.Int("questions", len(questions)),
	)

	e.publish(ctx, domain.LifecycleEventStarted, snapshot, domain.LifecycleStartedData{
		Topic:          topic,
		Difficulty:     diff,
		TotalQuestions: len(questions),
	})

	return snapshot, snapshot.CurrentQuestion(), nil
}

// SubmitAnswer evaluates answer against the session's current question and
// advances the session. The answer that completes the session also produces
// the FinalReport, which is persisted before SubmitAnswer returns. If the
// save fails the result is still returned together with a *PersistError.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, answer string) (*SubmitResult, error) {
	ctx, span := tracer.Start(ctx, "session.submit_answer",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	ls, err := e.lookupLive(ctx, sessionID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	ls.mu.Lock()
	s := ls.s
	if s.Status == domain.SessionCompleted {
		ls.mu.Unlock()
		recordError(span, domain.ErrSessionAlreadyComplete)
		return nil, domain.ErrSessionAlreadyComplete
	}
	ls.touch(e.now())

	q := s.Questions[s.CurrentIndex]
	ev := e.evaluator.Evaluate(ctx, q, answer)
	now := e.now()

	s.Answers = append(s.Answers, domain.Answer{QuestionID: q.ID, Text: answer, SubmittedAt: now})
	s.Evaluations = append(s.Evaluations, ev)
	s.CurrentIndex++

	result := &SubmitResult{
		SessionID:     s.ID,
		Evaluation:    ev,
		QuestionIndex: s.CurrentIndex - 1,
		Total:         len(s.Questions),
	}

	if s.CurrentIndex < len(s.Questions) {
		result.NextQuestion = s.CurrentQuestion()
		snapshot := s.Clone()
		ls.mu.Unlock()

		span.SetAttributes(attribute.Bool("session.completed", false))
		e.publishEvaluated(ctx, snapshot, ev, result.QuestionIndex)
		return result, nil
	}

	s.Status = domain.SessionCompleted
	s.CompletedAt = &now
	ls.done.Store(true)
	report := Finalize(s)
	s.Report = &report
	snapshot := s.Clone()
	ls.mu.Unlock()

	e.publishEvaluated(ctx, snapshot, ev, result.QuestionIndex)
	span.SetAttributes(
		attribute.Bool("session.completed", true),
		attribute.Float64("session.overall_score", report.OverallScore),
	)

	final, err := e.complete(ctx, ls, snapshot)
	result.Completed = true
	result.Report = final
	if err != nil {
		recordError(span, err)
		return result, err
	}
	return result, nil
}

// complete attaches the optional summary, persists the report and evicts the
// session. It runs without the session lock held, on a context that survives
// cancellation of ctx but is bounded by the persist timeout.
func (e *Engine) complete(ctx context.Context, ls *liveSession, snapshot *domain.Session) (*domain.FinalReport, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.persistTimeout)
	defer cancel()

	report := snapshot.Report.Clone()

	if e.summarizer != nil {
		if summary := e.summarizer.Summarize(ctx, &report); summary != "" {
			report.AISummary = summary
			snapshot.Report.AISummary = summary
			ls.mu.Lock()
			ls.s.Report.AISummary = summary
			ls.mu.Unlock()
		}
	}

	err := e.store.Save(ctx, &domain.SessionResult{
		SessionID:  snapshot.ID,
		UserID:     snapshot.UserID,
		Report:     &report,
		Transcript: snapshot,
		CreatedAt:  e.now(),
	})
	if err != nil {
		e.logger.Error("failed to persist session report",
			slog.String("session_id", snapshot.ID),
			slog.String("error", err.Error()),
		)
		e.publishCompleted(ctx, snapshot, &report, false)
		out := report.Clone()
		return &out, &PersistError{Report: &out, Err: err}
	}

	e.mu.Lock()
	delete(e.live, snapshot.ID)
	e.mu.Unlock()

	e.logger.Info("session completed",
		slog.String("session_id", snapshot.ID),
		slog.String("user_id", snapshot.UserID),
		slog.Float64("overall_score", report.OverallScore),
		slog.Int("duration_minutes", report.DurationMinutes),
	)

	if e.archiver != nil {
		if err := e.archiver.Archive(ctx, &report); err != nil {
			e.logger.Warn("failed to archive session report",
				slog.String("session_id", snapshot.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	e.publishCompleted(ctx, snapshot, &report, true)

	out := report.Clone()
	return &out, nil
}

// GetSession returns a snapshot of a live session, or the stored transcript
// of a completed one.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if ls, ok := e.findLive(sessionID); ok {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		return ls.s.Clone(), nil
	}

	result, err := e.store.Get(ctx, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if result.Transcript == nil {
		return transcriptFromReport(result.Report), nil
	}
	return result.Transcript, nil
}

// GetReport returns the final report of a completed session.
func (e *Engine) GetReport(ctx context.Context, sessionID string) (*domain.FinalReport, error) {
	s, err := e.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status != domain.SessionCompleted || s.Report == nil {
		return nil, domain.ErrSessionNotComplete
	}
	return s.Report, nil
}

// GetHistory returns the user's past reports, most recent first.
func (e *Engine) GetHistory(ctx context.Context, userID string) ([]domain.FinalReport, error) {
	reports, err := e.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", userID, err)
	}
	return reports, nil
}

// GetInsights summarizes the user's history.
func (e *Engine) GetInsights(ctx context.Context, userID string) (*domain.Insights, error) {
	reports, err := e.GetHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	ins := BuildInsights(userID, reports)
	return &ins, nil
}

// ActiveSessions returns the number of sessions in the live table.
func (e *Engine) ActiveSessions() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.live)
}

// lookupLive finds a live session. An id that is not live but has a stored
// result belongs to a completed session.
func (e *Engine) lookupLive(ctx context.Context, sessionID string) (*liveSession, error) {
	if ls, ok := e.findLive(sessionID); ok {
		return ls, nil
	}

	_, err := e.store.Get(ctx, sessionID)
	switch {
	case err == nil:
		return nil, domain.ErrSessionAlreadyComplete
	case errors.Is(err, storage.ErrNotFound):
		return nil, domain.ErrSessionNotFound
	default:
		return nil, fmt.Errorf("failed to look up session %s: %w", sessionID, err)
	}
}

// findLive returns the live entry for sessionID. An entry that has been
// idle past the timeout is evicted and reported as absent.
func (e *Engine) findLive(sessionID string) (*liveSession, bool) {
	e.mu.RLock()
	ls, ok := e.live[sessionID]
	e.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !ls.idle(e.now(), e.idleTimeout) {
		return ls, true
	}

	e.mu.Lock()
	if e.live[sessionID] == ls {
		delete(e.live, sessionID)
	}
	e.mu.Unlock()
	e.logger.Info("session expired",
		slog.String("session_id", sessionID),
		slog.Duration("idle_timeout", e.idleTimeout),
	)
	return nil, false
}

// sweepIdleLocked drops expired sessions at most once per idle timeout.
// e.mu must be held for writing.
func (e *Engine) sweepIdleLocked(now time.Time) {
	if e.idleTimeout <= 0 || now.Sub(e.lastSweep) <= e.idleTimeout {
		return
	}
	for sid, ls := range e.live {
		if ls.idle(now, e.idleTimeout) {
			delete(e.live, sid)
			e.logger.Info("session expired",
				slog.String("session_id", sid),
				slog.Duration("idle_timeout", e.idleTimeout),
			)
		}
	}
	e.lastSweep = now
}

func (e *Engine) publishEvaluated(ctx context.Context, s *domain.Session, ev domain.Evaluation, index int) {
	e.publish(ctx, domain.LifecycleEventEvaluated, s, domain.LifecycleEvaluatedData{
		QuestionID:  ev.QuestionID,
		Category:    ev.Category,
		Score:       ev.Score,
		AIAugmented: ev.AIAugmented,
		Index:       index,
	})
}

func (e *Engine) publishCompleted(ctx context.Context, s *domain.Session, r *domain.FinalReport, persisted bool) {
	e.publish(ctx, domain.LifecycleEventCompleted, s, domain.LifecycleCompletedData{
		OverallScore:    r.OverallScore,
		DurationMinutes: r.DurationMinutes,
		Persisted:       persisted,
	})
}

// publish is best-effort; failures are logged.
func (e *Engine) publish(ctx context.Context, typ domain.LifecycleEventType, s *domain.Session, data interface{}) {
	if e.publisher == nil {
		return
	}
	event := &domain.LifecycleEvent{
		Type:      typ,
		SessionID: s.ID,
		UserID:    s.UserID,
		Timestamp: e.now(),
		Data:      data,
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("failed to publish lifecycle event",
			slog.String("event_type", string(typ)),
			slog.String("session_id", s.ID),
			slog.String("error", err.Error()),
		)
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// transcriptFromReport rebuilds a minimal completed session for stores that
// keep only the report.
func transcriptFromReport(r *domain.FinalReport) *domain.Session {
	completed := r.CompletedAt
	report := r.Clone()
	return &domain.Session{
		ID:           r.SessionID,
		UserID:       r.UserID,
		Topic:        r.Topic,
		Difficulty:   r.Difficulty,
		CurrentIndex: r.TotalQuestions,
		Status:       domain.SessionCompleted,
		StartedAt:    r.StartedAt,
		CompletedAt:  &completed,
		Report:       &report,
	}
}
