package tokens

import (
	"strings"
	"testing"
)

func TestEstimator_Count(t *testing.T) {
	e := NewEstimator()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "short", text: "abc", want: 0},
		{name: "sixteen chars", text: "abcdefghijklmnop", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimator_Truncate(t *testing.T) {
	e := NewEstimator()

	got, cut := e.Truncate("abcdefghij", 2)
	if !cut {
		t.Fatal("Truncate() cut = false, want true")
	}
	if got != "abcdefgh" {
		t.Errorf("Truncate() = %q, want %q", got, "abcdefgh")
	}

	got, cut = e.Truncate("abc", 2)
	if cut || got != "abc" {
		t.Errorf("Truncate() = %q, %v, want unchanged", got, cut)
	}
}

func TestCounter_Count(t *testing.T) {
	c := NewCounter("gpt-4o-mini")

	if got := c.Count(""); got != 0 {
		t.Errorf("Count(\"\") = %d, want 0", got)
	}
	short := c.Count("hello")
	long := c.Count(strings.Repeat("hello world ", 50))
	if short < 1 {
		t.Errorf("Count(hello) = %d, want >= 1", short)
	}
	if long <= short {
		t.Errorf("Count(long) = %d, want > %d", long, short)
	}
}

func TestCounter_Truncate(t *testing.T) {
	c := NewCounter("gpt-4")
	text := strings.Repeat("scalability caching database ", 100)

	got, cut := c.Truncate(text, 20)
	if !cut {
		t.Fatal("Truncate() cut = false, want true")
	}
	if n := c.Count(got); n > 20 {
		t.Errorf("Count(truncated) = %d, want <= 20", n)
	}
	if !strings.HasPrefix(text, got) {
		t.Errorf("Truncate() = %q, want a prefix of the input", got)
	}

	same, cut := c.Truncate("short answer", 20)
	if cut || same != "short answer" {
		t.Errorf("Truncate() = %q, %v, want unchanged", same, cut)
	}

	same, cut = c.Truncate(text, 0)
	if cut || same != text {
		t.Error("Truncate(limit=0) modified text")
	}
}

func TestModelToEncoding(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"gpt-4o-mini", "o200k_base"},
		{"gpt-5", "o200k_base"},
		{"gpt-4", "cl100k_base"},
		{"gpt-3.5-turbo", "cl100k_base"},
		{"llama3", "cl100k_base"},
		{"unknown-model", "o200k_base"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := string(modelToEncoding(tt.model)); got != tt.want {
				t.Errorf("modelToEncoding(%q) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}
