package shorten

import "time"

// Exports for testing. These allow black-box tests to inject dependencies
// without modifying the public API.

// NewTestShortener creates an OpenAIShortener with a mock chatCompleter.
// This allows testing without a real OpenAI client.
func NewTestShortener(client chatCompleter, opts ...Option) *OpenAIShortener {
	s := &OpenAIShortener{
		client:     client,
		model:      DefaultModel,
		maxRetries: defaultMaxRetries,
		baseDelay:  time.Millisecond,
		maxDelay:   time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildPrompt exposes the prompt builder for unit tests.
var BuildPrompt = buildPrompt
