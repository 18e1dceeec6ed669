package coach_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tjfontaine/interview-coach/internal/storage/memory"
	"github.com/tjfontaine/interview-coach/pkg/coach"
)

func TestEmbed(t *testing.T) {
	cfg := &coach.Config{}
	cfg.Server.Port = 18081
	cfg.Interview.QuestionCount = 3
	cfg.Storage.Kind = "memory"
	cfg.Events.Kind = "none"

	app, err := coach.New(context.Background(), cfg,
		coach.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		coach.WithResultStore(memory.New()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Shutdown(context.Background())

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
}
