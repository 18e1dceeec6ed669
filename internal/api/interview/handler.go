// Package interview exposes the session engine over HTTP.
package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tjfontaine/interview-coach/internal/assessment"
	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/server"
	"github.com/tjfontaine/interview-coach/internal/session"
)

// maxBodyBytes bounds request bodies; answers are free text.
const maxBodyBytes = 1 << 20

// Engine is the subset of *session.Engine the handler uses.
type Engine interface {
	StartSession(ctx context.Context, userID, topic, difficulty string) (*domain.Session, *domain.Question, error)
	SubmitAnswer(ctx context.Context, sessionID, answer string) (*session.SubmitResult, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetReport(ctx context.Context, sessionID string) (*domain.FinalReport, error)
	GetHistory(ctx context.Context, userID string) ([]domain.FinalReport, error)
	GetInsights(ctx context.Context, userID string) (*domain.Insights, error)
	ActiveSessions() int
}

// RenderFunc writes a report document, such as a PDF.
type RenderFunc func(w io.Writer, r *domain.FinalReport) error

type Handler struct {
	engine     Engine
	assessment *assessment.Table
	render     RenderFunc
}

// NewHandler creates a handler. table and render may be nil, which disables
// the assessment and PDF routes.
func NewHandler(engine Engine, table *assessment.Table, render RenderFunc) *Handler {
	return &Handler{engine: engine, assessment: table, render: render}
}

// Register mounts the routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", h.handleStart)
		r.Get("/sessions/{sessionID}", h.handleGetSession)
		r.Post("/sessions/{sessionID}/answers", h.handleSubmit)
		r.Get("/sessions/{sessionID}/report", h.handleReport)
		r.Get("/sessions/{sessionID}/report.pdf", h.handleReportPDF)

		r.Get("/users/{userID}/history", h.handleHistory)
		r.Get("/users/{userID}/insights", h.handleInsights)

		r.Get("/assessment/items", h.handleAssessmentItems)
		r.Post("/assessment/score", h.handleAssessmentScore)
	})
}

type StartRequest struct {
	UserID     string `json:"user_id,omitempty"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

type StartResponse struct {
	SessionID      string            `json:"session_id"`
	UserID         string            `json:"user_id"`
	Topic          string            `json:"topic"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	TotalQuestions int               `json:"total_questions"`
	Question       *domain.Question  `json:"question"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

// PersistFailureResponse is returned when the final answer was evaluated
// and the report computed, but saving it failed.
type PersistFailureResponse struct {
	Error  *domain.APIError      `json:"error"`
	Result *session.SubmitResult `json:"result"`
}

type ScoreRequest struct {
	Responses map[string][]int `json:"responses"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	server.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", ActiveSessions: h.engine.ActiveSessions()})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decode(w, r, &req); err != nil {
		server.WriteError(w, r, err)
		return
	}

	// An authenticated caller always acts as itself.
	userID := req.UserID
	if authed := server.UserID(r.Context()); authed != "" {
		userID = authed
	}

	s, q, err := h.engine.StartSession(r.Context(), userID, req.Topic, req.Difficulty)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}
	server.AddLogField(r.Context(), "session_id", s.ID)

	server.WriteJSON(w, http.StatusCreated, StartResponse{
		SessionID:      s.ID,
		UserID:         s.UserID,
		Topic:          s.Topic,
		Difficulty:     s.Difficulty,
		TotalQuestions: len(s.Questions),
		Question:       q,
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.ownedSession(r)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	server.AddLogField(r.Context(), "session_id", sessionID)

	if _, err := h.ownedSession(r); err != nil {
		server.WriteError(w, r, err)
		return
	}

	var req AnswerRequest
	if err := decode(w, r, &req); err != nil {
		server.WriteError(w, r, err)
		return
	}

	res, err := h.engine.SubmitAnswer(r.Context(), sessionID, req.Answer)
	var persistErr *session.PersistError
	if errors.As(err, &persistErr) {
		server.AddError(r.Context(), err)
		apiErr := domain.ErrServer("report was computed but could not be saved").
			WithCode(domain.ErrorCodeReportNotPersisted)
		server.WriteJSON(w, apiErr.HTTPStatusCode(), PersistFailureResponse{Error: apiErr, Result: res})
		return
	}
	if err != nil {
		server.WriteError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.ownedReport(r)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	if h.render == nil {
		server.WriteError(w, r, domain.NewAPIError(domain.ErrorTypeNotFound, "report rendering is disabled"))
		return
	}
	report, err := h.ownedReport(r)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.render(&buf, report); err != nil {
		server.WriteError(w, r, fmt.Errorf("render report: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="interview-%s.pdf"`, report.SessionID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUser(r)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}
	reports, err := h.engine.GetHistory(r.Context(), userID)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"reports": reports,
	})
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUser(r)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}
	ins, err := h.engine.GetInsights(r.Context(), userID)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, ins)
}

func (h *Handler) handleAssessmentItems(w http.ResponseWriter, r *http.Request) {
	if h.assessment == nil {
		server.WriteError(w, r, domain.NewAPIError(domain.ErrorTypeNotFound, "assessment is disabled"))
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": h.assessment.Items()})
}

func (h *Handler) handleAssessmentScore(w http.ResponseWriter, r *http.Request) {
	if h.assessment == nil {
		server.WriteError(w, r, domain.NewAPIError(domain.ErrorTypeNotFound, "assessment is disabled"))
		return
	}
	var req ScoreRequest
	if err := decode(w, r, &req); err != nil {
		server.WriteError(w, r, err)
		return
	}
	res, err := h.assessment.Score(req.Responses)
	if err != nil {
		server.WriteError(w, r, domain.ErrInvalidRequest(err.Error()))
		return
	}
	server.WriteJSON(w, http.StatusOK, res)
}

// ownedSession loads the session named in the path and, for authenticated
// callers, checks that it belongs to them. Another user's session is
// reported as not found.
func (h *Handler) ownedSession(r *http.Request) (*domain.Session, error) {
	s, err := h.engine.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		return nil, err
	}
	if authed := server.UserID(r.Context()); authed != "" && authed != s.UserID {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (h *Handler) ownedReport(r *http.Request) (*domain.FinalReport, error) {
	if _, err := h.ownedSession(r); err != nil {
		return nil, err
	}
	return h.engine.GetReport(r.Context(), chi.URLParam(r, "sessionID"))
}

func pathUser(r *http.Request) (string, error) {
	userID := chi.URLParam(r, "userID")
	if authed := server.UserID(r.Context()); authed != "" && authed != userID {
		return "", domain.NewAPIError(domain.ErrorTypeAuthentication, "cannot read another user's history").
			WithStatusCode(http.StatusForbidden)
	}
	return userID, nil
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrInvalidRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}
