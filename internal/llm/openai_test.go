package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tjfontaine/interview-coach/internal/core/ports"
	"github.com/tjfontaine/interview-coach/internal/testutil"
)

func TestOpenAIClient_Generate(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s, want /v1/chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want Bearer sk-test", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  hello there  "}}]}`))
	}))
	defer server.Close()

	c := NewOpenAIClient(server.URL+"/v1/", "sk-test", "gpt-4o-mini", WithSystemPrompt("be brief"))
	text, err := c.Generate(context.Background(), "say hi", ports.GenerateParams{Temperature: 0.2, MaxTokens: 50, JSON: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "hello there" {
		t.Errorf("Generate() = %q, want %q", text, "hello there")
	}

	if got.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want gpt-4o-mini", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "say hi" {
		t.Errorf("messages = %+v, want system + user", got.Messages)
	}
	if got.MaxTokens != 50 {
		t.Errorf("max_tokens = %d, want 50", got.MaxTokens)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", got.ResponseFormat)
	}
}

func TestOpenAIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		wantMsg string
	}{
		{
			name:   "quota exceeded",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"quota exceeded"}}`,
			check: func(err error) bool {
				var se *StatusError
				return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"choices":[]}`,
			check:  func(err error) bool { return strings.Contains(err.Error(), "no choices") },
		},
		{
			name:   "empty content",
			status: http.StatusOK,
			body:   `{"choices":[{"message":{"content":""}}]}`,
			check:  func(err error) bool { return errors.Is(err, ErrEmptyResponse) },
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `not json`,
			check:  func(err error) bool { return strings.Contains(err.Error(), "decode") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewOpenAIClient(server.URL, "", "llama3")
			_, err := c.Generate(context.Background(), "prompt", ports.GenerateParams{})
			if err == nil {
				t.Fatal("Generate() error = nil, want error")
			}
			if !tt.check(err) {
				t.Errorf("Generate() error = %v, unexpected kind", err)
			}
		})
	}
}

func TestOpenAIClient_RespectsContext(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewOpenAIClient(server.URL, "", "llama3")
	if _, err := c.Generate(ctx, "prompt", ports.GenerateParams{}); err == nil {
		t.Error("Generate() error = nil, want context error")
	}
}

func TestOpenAIClient_RateLimitHonoursCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	c := NewOpenAIClient(server.URL, "", "llama3", WithRateLimit(1))
	if _, err := c.Generate(context.Background(), "first", ports.GenerateParams{}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Generate(ctx, "second", ports.GenerateParams{})
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("Generate() error = %v, want rate limit wait error", err)
	}
}

func TestOpenAIClient_Recorded(t *testing.T) {
	r, cleanup := testutil.NewVCRRecorder(t, "openai_evaluate")
	defer cleanup()

	c := NewOpenAIClient("https://api.openai.com/v1", "sk-redacted", "gpt-4o-mini",
		WithHTTPClient(testutil.VCRHTTPClient(r)))

	text, err := c.Generate(context.Background(), "Evaluate this interview answer.",
		ports.GenerateParams{Temperature: 0.3, MaxTokens: 300, JSON: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var parsed struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &parsed); err != nil {
		t.Fatalf("recorded content is not JSON: %v", err)
	}
	if parsed.Score != 72 {
		t.Errorf("score = %v, want 72", parsed.Score)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "none", cfg: Config{Provider: ProviderNone}, wantErr: true},
		{name: "unknown", cfg: Config{Provider: "bard", Model: "x"}, wantErr: true},
		{name: "missing model", cfg: Config{Provider: ProviderOpenAI}, wantErr: true},
		{name: "ollama", cfg: Config{Provider: ProviderOllama, Model: "llama3"}},
		{name: "perplexity", cfg: Config{Provider: ProviderPerplexity, Model: "sonar", RequestsPerMinute: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && c == nil {
				t.Error("New() returned nil client")
			}
		})
	}
}

func TestConfig_BaseURLFor(t *testing.T) {
	if got := (Config{Provider: ProviderOllama}).BaseURLFor(); got != "http://localhost:11434/v1" {
		t.Errorf("BaseURLFor() = %q", got)
	}
	if got := (Config{Provider: ProviderOllama, BaseURL: "http://gpu:11434/v1"}).BaseURLFor(); got != "http://gpu:11434/v1" {
		t.Errorf("BaseURLFor() = %q", got)
	}
}
