package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"score": 80}`, want: `{"score": 80}`},
		{name: "fenced", in: "```json\n{\"score\": 80}\n```", want: `{"score": 80}`},
		{name: "bare fence", in: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "prose around", in: `Here you go: {"a": {"b": 2}} hope it helps`, want: `{"a": {"b": 2}}`},
		{name: "brace in string", in: `{"text": "use } carefully"}`, want: `{"text": "use } carefully"}`},
		{name: "escaped quote", in: `{"text": "say \"}\" now"}`, want: `{"text": "say \"}\" now"}`},
		{name: "stray closing brace", in: `} {"a": 1}`, want: `{"a": 1}`},
		{name: "no object", in: "I cannot grade this.", want: ""},
		{name: "unbalanced", in: `{"a": 1`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanJSON(t *testing.T) {
	if got := CleanJSON("  ```json\r\n[1,2]```  "); got != "[1,2]" {
		t.Errorf("CleanJSON() = %q, want [1,2]", got)
	}
}
