package runtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tjfontaine/interview-coach/internal/adapters/auth/jwt"
	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
	"github.com/tjfontaine/interview-coach/internal/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: 18080, RequestTimeout: 5 * time.Second},
		Logging:   config.LoggingConfig{Level: "info"},
		Interview: config.InterviewConfig{QuestionCount: 2, Seed: 7, EvaluatorTimeout: time.Second},
		Storage:   config.StorageConfig{Kind: config.StorageMemory},
		Events:    config.EventsConfig{Kind: config.EventsNone},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type recordingPublisher struct {
	mu     sync.Mutex
	types  []domain.LifecycleEventType
	closed bool
}

func (p *recordingPublisher) Publish(ctx context.Context, e *domain.LifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, e.Type)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

type fixedModel string

func (m fixedModel) Generate(ctx context.Context, prompt string, params ports.GenerateParams) (string, error) {
	return string(m), nil
}

func post(t *testing.T, h http.Handler, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Kind = "redis"

	if _, err := New(context.Background(), cfg, WithLogger(quietLogger())); err == nil {
		t.Fatal("New() error = nil, want error")
	}
}

func TestApp_CompletesSessionOverHTTP(t *testing.T) {
	pub := &recordingPublisher{}
	app, err := New(context.Background(), testConfig(), WithLogger(quietLogger()), WithEventPublisher(pub))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h := app.Handler()

	rec := post(t, h, "/v1/sessions", `{"user_id":"u-1","topic":"technical","difficulty":"easy"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var start struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &start); err != nil {
		t.Fatalf("decode start: %v", err)
	}
	if app.Engine().ActiveSessions() != 1 {
		t.Errorf("ActiveSessions() = %d, want 1", app.Engine().ActiveSessions())
	}

	for i := 0; i < 2; i++ {
		rec = post(t, h, "/v1/sessions/"+start.SessionID+"/answers", `{"answer":"I would profile first, then optimize the hot path."}`, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %d status = %d, body = %s", i, rec.Code, rec.Body.String())
		}
	}
	if app.Engine().ActiveSessions() != 0 {
		t.Errorf("ActiveSessions() = %d after completion, want 0", app.Engine().ActiveSessions())
	}

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	want := []domain.LifecycleEventType{
		domain.LifecycleEventStarted,
		domain.LifecycleEventEvaluated,
		domain.LifecycleEventEvaluated,
		domain.LifecycleEventCompleted,
	}
	if len(pub.types) != len(want) {
		t.Fatalf("events = %v, want %v", pub.types, want)
	}
	for i := range want {
		if pub.types[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, pub.types[i], want[i])
		}
	}
	if !pub.closed {
		t.Error("Shutdown() did not close the publisher")
	}
}

func TestApp_SQLiteStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage = config.StorageConfig{Kind: config.StorageSQLite, Path: filepath.Join(t.TempDir(), "data", "coach.db")}
	cfg.Events.Kind = config.EventsDirect

	app, err := New(context.Background(), cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Shutdown(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
}

func TestApp_RequiredAuth(t *testing.T) {
	const secret = "a-test-secret-that-is-long-enough"
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{Enabled: true, Required: true, Secret: secret, Issuer: "coach-test", TTL: time.Hour}

	app, err := New(context.Background(), cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Shutdown(context.Background())

	body := `{"topic":"behavioral","difficulty":"medium"}`
	if rec := post(t, app.Handler(), "/v1/sessions", body, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}

	issuer, err := jwt.NewProvider(secret, jwt.WithIssuer("coach-test"))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	rec := post(t, app.Handler(), "/v1/sessions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("authenticated status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var start struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &start); err != nil {
		t.Fatalf("decode start: %v", err)
	}
	if start.UserID != "alice" {
		t.Errorf("UserID = %q, want alice", start.UserID)
	}
}

func TestApp_GeneratedQuestions(t *testing.T) {
	tests := []struct {
		name       string
		generate   bool
		wantPrefix bool
	}{
		{name: "enabled", generate: true, wantPrefix: true},
		{name: "disabled", generate: false, wantPrefix: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Interview.GenerateQuestions = tt.generate
			cfg.Interview.GeneratorTimeout = time.Second
			model := fixedModel(`{"question": "Walk me through a recent incident.", "key_points": ["timeline", "root cause"]}`)

			app, err := New(context.Background(), cfg, WithLogger(quietLogger()), WithLanguageModel(model))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer app.Shutdown(context.Background())

			rec := post(t, app.Handler(), "/v1/sessions", `{"topic":"technical","difficulty":"easy"}`, "")
			if rec.Code != http.StatusCreated {
				t.Fatalf("start status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var start struct {
				Question domain.Question `json:"question"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &start); err != nil {
				t.Fatalf("decode start: %v", err)
			}
			if got := strings.HasPrefix(start.Question.ID, "gen-"); got != tt.wantPrefix {
				t.Errorf("question id = %q, generated = %v, want %v", start.Question.ID, got, tt.wantPrefix)
			}
		})
	}
}
