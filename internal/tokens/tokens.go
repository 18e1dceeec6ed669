// Package tokens counts and trims prompt text against a token budget.
package tokens

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Counter counts tokens for a model using tiktoken, falling back to a
// character estimate when no encoding can be loaded.
type Counter struct {
	model string
	// codecCache caches tokenizer codecs by encoding name
	codecCache map[tokenizer.Encoding]tokenizer.Codec
	cacheMu    sync.RWMutex
	estimator  *Estimator
}

// NewCounter creates a counter for the given model name.
func NewCounter(model string) *Counter {
	return &Counter{
		model:      model,
		codecCache: make(map[tokenizer.Encoding]tokenizer.Codec),
		estimator:  NewEstimator(),
	}
}

// getCodec returns the tokenizer codec for the counter's model.
func (c *Counter) getCodec() (tokenizer.Codec, error) {
	encoding := modelToEncoding(c.model)

	c.cacheMu.RLock()
	if cached, ok := c.codecCache[encoding]; ok {
		c.cacheMu.RUnlock()
		return cached, nil
	}
	c.cacheMu.RUnlock()

	codec, err := tokenizer.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer encoding: %w", err)
	}

	c.cacheMu.Lock()
	c.codecCache[encoding] = codec
	c.cacheMu.Unlock()

	return codec, nil
}

// modelToEncoding maps model names to encodings.
//
// Encoding reference:
// - O200kBase: GPT-5, GPT-4.1, GPT-4o, O-series and unknown models
// - Cl100kBase: GPT-4, GPT-3.5-turbo, Llama and Mistral served through Ollama
func modelToEncoding(model string) tokenizer.Encoding {
	model = strings.ToLower(model)

	switch {
	case strings.HasPrefix(model, "gpt-5"),
		strings.HasPrefix(model, "gpt-4.1"),
		strings.HasPrefix(model, "gpt-4o"),
		strings.HasPrefix(model, "o1"), strings.HasPrefix(model, "o3"), strings.HasPrefix(model, "o4"):
		return tokenizer.O200kBase
	case strings.HasPrefix(model, "gpt-4"), strings.HasPrefix(model, "gpt-3.5"):
		return tokenizer.Cl100kBase
	case strings.HasPrefix(model, "llama"), strings.HasPrefix(model, "mistral"):
		return tokenizer.Cl100kBase
	default:
		return tokenizer.O200kBase
	}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	codec, err := c.getCodec()
	if err != nil {
		return c.estimator.Count(text)
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return c.estimator.Count(text)
	}
	return len(ids)
}

// Truncate returns text cut to at most limit tokens. The second return value
// reports whether anything was removed. A non-positive limit disables
// truncation.
func (c *Counter) Truncate(text string, limit int) (string, bool) {
	if limit <= 0 || text == "" {
		return text, false
	}

	codec, err := c.getCodec()
	if err != nil {
		return c.estimator.Truncate(text, limit)
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return c.estimator.Truncate(text, limit)
	}
	if len(ids) <= limit {
		return text, false
	}

	out, err := codec.Decode(ids[:limit])
	if err != nil {
		return c.estimator.Truncate(text, limit)
	}
	return out, true
}

// Estimator provides token count estimation based on character counts.
// This is the fallback when no tokenizer encoding is available.
type Estimator struct {
	// CharsPerToken is the average characters per token (default: 4)
	CharsPerToken float64
}

// NewEstimator creates a new token estimator.
func NewEstimator() *Estimator {
	return &Estimator{
		CharsPerToken: 4.0,
	}
}

// Count estimates the token count of text.
func (e *Estimator) Count(text string) int {
	return int(float64(len([]rune(text))) / e.CharsPerToken)
}

// Truncate cuts text to roughly limit tokens on a rune boundary.
func (e *Estimator) Truncate(text string, limit int) (string, bool) {
	runes := []rune(text)
	maxRunes := int(float64(limit) * e.CharsPerToken)
	if len(runes) <= maxRunes {
		return text, false
	}
	return string(runes[:maxRunes]), true
}
