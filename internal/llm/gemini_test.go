package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

func TestGeminiClient_Generate(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"score\": 64}"}]}}]}`))
	}))
	defer server.Close()

	g, err := NewGeminiClient(context.Background(), "test-key", "gemini-2.0-flash", server.URL, server.Client())
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}

	text, err := g.Generate(context.Background(), "grade this", ports.GenerateParams{Temperature: 0.3, MaxTokens: 200, JSON: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != `{"score": 64}` {
		t.Errorf("Generate() = %q", text)
	}
	if !strings.Contains(path, "gemini-2.0-flash:generateContent") {
		t.Errorf("path = %q, want generateContent on the model", path)
	}
}

func TestGeminiClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer server.Close()

	g, err := NewGeminiClient(context.Background(), "test-key", "", server.URL, server.Client())
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	if _, err := g.Generate(context.Background(), "grade this", ports.GenerateParams{}); err == nil {
		t.Error("Generate() error = nil, want error")
	}
}

func TestGeminiClient_RateLimitHonoursCancellation(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	g, err := NewGeminiClient(context.Background(), "test-key", "", server.URL, server.Client(), WithGeminiRateLimit(1))
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	if _, err := g.Generate(context.Background(), "first", ports.GenerateParams{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx, "second", ports.GenerateParams{})
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("Generate() error = %v, want rate limit wait error", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
}
