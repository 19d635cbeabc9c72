package shorten

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/angelospk/eng-sub-translation-optimize/internal/apierr"
)

const (
	// DefaultModel is the chat model used for shortening.
	DefaultModel = "gpt-4o-mini"

	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// Shortener rewrites high reading-speed segments to shorter text.
type Shortener interface {
	// Shorten fills in the ShortenedText of each segment.
	// Segments the model did not answer for are returned unchanged.
	Shorten(ctx context.Context, segments []Segment) ([]Segment, error)
}

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Shortener     = (*OpenAIShortener)(nil)
	_ chatCompleter = (*openai.Client)(nil)
)

// OpenAIShortener shortens subtitle segments using OpenAI's chat completion
// API. It supports automatic retries with exponential backoff for transient
// errors.
type OpenAIShortener struct {
	client     chatCompleter
	model      string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// Option configures an OpenAIShortener.
type Option func(*OpenAIShortener)

// WithModel sets the chat model used for shortening.
func WithModel(model string) Option {
	return func(s *OpenAIShortener) {
		if model != "" {
			s.model = model
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) Option {
	return func(s *OpenAIShortener) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) Option {
	return func(s *OpenAIShortener) {
		if base > 0 {
			s.baseDelay = base
		}
		if max > 0 {
			s.maxDelay = max
		}
	}
}

// NewOpenAIShortener creates a new OpenAIShortener.
// The client is injected to enable testing with mocks.
func NewOpenAIShortener(client *openai.Client, opts ...Option) *OpenAIShortener {
	s := &OpenAIShortener{
		client:     client,
		model:      DefaultModel,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shorten sends all segments in a single chat completion request and parses
// the model's JSON answer back into the segments.
// It automatically retries on transient errors (rate limits, timeouts, server errors).
func (s *OpenAIShortener) Shorten(ctx context.Context, segments []Segment) ([]Segment, error) {
	if len(segments) == 0 {
		return segments, nil
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0, // Deterministic output for reproducibility
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(segments)},
		},
	}

	cfg := apierr.RetryConfig{
		MaxRetries: s.maxRetries,
		BaseDelay:  s.baseDelay,
		MaxDelay:   s.maxDelay,
	}

	answer, err := apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", apierr.Classify(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty chat completion response")
		}
		return resp.Choices[0].Message.Content, nil
	}, apierr.IsRetryable)
	if err != nil {
		return nil, fmt.Errorf("shortening %d segments: %w", len(segments), err)
	}

	return mergeAnswer(segments, answer)
}

// jsonArray extracts the first JSON array from a response that may be
// wrapped in markdown fences or prose.
var jsonArray = regexp.MustCompile(`(?s)\[.*\]`)

type shortenedItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// mergeAnswer parses the model's JSON array and fills in ShortenedText by index.
func mergeAnswer(segments []Segment, answer string) ([]Segment, error) {
	raw := jsonArray.FindString(answer)
	if raw == "" {
		return nil, fmt.Errorf("no JSON array in model response")
	}

	var items []shortenedItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parsing model response: %w", err)
	}

	byIndex := make(map[int]string, len(items))
	for _, item := range items {
		byIndex[item.Index] = item.Text
	}

	result := make([]Segment, len(segments))
	for i, seg := range segments {
		if text, ok := byIndex[seg.Index]; ok {
			seg.ShortenedText = text
		}
		result[i] = seg
	}
	return result, nil
}
