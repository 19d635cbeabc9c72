package shorten_test

// Coverage Notes:
// - Shorten: happy path, markdown-fenced answer, no JSON array, unanswered
//   index, empty input, retry on rate limit, non-retryable failure.
// - buildPrompt: segment fields and context fallbacks appear in the prompt.

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/angelospk/eng-sub-translation-optimize/internal/apierr"
	"github.com/angelospk/eng-sub-translation-optimize/internal/shorten"
)

// mockChatCompleter returns canned responses in order, then repeats the last.
type mockChatCompleter struct {
	responses []openai.ChatCompletionResponse
	errs      []error
	calls     int
}

func (m *mockChatCompleter) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	i := m.calls
	m.calls++
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], m.errs[i]
}

func textResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func sampleSegments() []shorten.Segment {
	return []shorten.Segment{
		{Index: 1, OriginalText: "This is a very long subtitle text", CharsToReduce: 10},
		{Index: 2, OriginalText: "Another really long subtitle text", CharsToReduce: 8},
	}
}

// ---------------------------------------------------------------------------
// TestShorten
// ---------------------------------------------------------------------------

func TestShorten(t *testing.T) {
	t.Parallel()

	t.Run("fills shortened text by index", func(t *testing.T) {
		t.Parallel()

		mock := &mockChatCompleter{
			responses: []openai.ChatCompletionResponse{
				textResponse(`[{"index": 1, "text": "Long subtitle"}, {"index": 2, "text": "Another long one"}]`),
			},
			errs: []error{nil},
		}
		s := shorten.NewTestShortener(mock)

		result, err := s.Shorten(context.Background(), sampleSegments())
		if err != nil {
			t.Fatalf("Shorten() error = %v", err)
		}
		if result[0].ShortenedText != "Long subtitle" {
			t.Errorf("ShortenedText[0] = %q", result[0].ShortenedText)
		}
		if result[1].ShortenedText != "Another long one" {
			t.Errorf("ShortenedText[1] = %q", result[1].ShortenedText)
		}
	})

	t.Run("accepts markdown fenced answer", func(t *testing.T) {
		t.Parallel()

		answer := "Here you go:\n```json\n[{\"index\": 1, \"text\": \"Short\"}]\n```\n"
		mock := &mockChatCompleter{
			responses: []openai.ChatCompletionResponse{textResponse(answer)},
			errs:      []error{nil},
		}
		s := shorten.NewTestShortener(mock)

		result, err := s.Shorten(context.Background(), sampleSegments()[:1])
		if err != nil {
			t.Fatalf("Shorten() error = %v", err)
		}
		if result[0].ShortenedText != "Short" {
			t.Errorf("ShortenedText = %q, want %q", result[0].ShortenedText, "Short")
		}
	})

	t.Run("no JSON array in answer", func(t *testing.T) {
		t.Parallel()

		mock := &mockChatCompleter{
			responses: []openai.ChatCompletionResponse{textResponse("Sorry, I cannot help with that.")},
			errs:      []error{nil},
		}
		s := shorten.NewTestShortener(mock)

		if _, err := s.Shorten(context.Background(), sampleSegments()); err == nil {
			t.Error("Shorten() = nil error, want JSON parse failure")
		}
	})

	t.Run("unanswered index left unchanged", func(t *testing.T) {
		t.Parallel()

		mock := &mockChatCompleter{
			responses: []openai.ChatCompletionResponse{
				textResponse(`[{"index": 2, "text": "Only this one"}]`),
			},
			errs: []error{nil},
		}
		s := shorten.NewTestShortener(mock)

		result, err := s.Shorten(context.Background(), sampleSegments())
		if err != nil {
			t.Fatalf("Shorten() error = %v", err)
		}
		if result[0].ShortenedText != "" {
			t.Errorf("ShortenedText[0] = %q, want empty", result[0].ShortenedText)
		}
		if result[1].ShortenedText != "Only this one" {
			t.Errorf("ShortenedText[1] = %q", result[1].ShortenedText)
		}
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		t.Parallel()

		mock := &mockChatCompleter{}
		s := shorten.NewTestShortener(mock)

		result, err := s.Shorten(context.Background(), nil)
		if err != nil {
			t.Fatalf("Shorten() error = %v", err)
		}
		if len(result) != 0 {
			t.Errorf("Shorten() = %d segments, want 0", len(result))
		}
		if mock.calls != 0 {
			t.Errorf("calls = %d, want 0", mock.calls)
		}
	})

	t.Run("retries on rate limit", func(t *testing.T) {
		t.Parallel()

		mock := &mockChatCompleter{
			responses: []openai.ChatCompletionResponse{
				{},
				textResponse(`[{"index": 1, "text": "Short"}]`),
			},
			errs: []error{
				&openai.APIError{HTTPStatusCode: 429, Message: "rate limit exceeded"},
				nil,
			},
		}
		s := shorten.NewTestShortener(mock)

		result, err := s.Shorten(context.Background(), sampleSegments()[:1])
		if err != nil {
			t.Fatalf("Shorten() error = %v", err)
		}
		if result[0].ShortenedText != "Short" {
			t.Errorf("ShortenedText = %q, want %q", result[0].ShortenedText, "Short")
		}
		if mock.calls != 2 {
			t.Errorf("calls = %d, want 2", mock.calls)
		}
	})

	t.Run("auth failure is not retried", func(t *testing.T) {
		t.Parallel()

		mock := &mockChatCompleter{
			responses: []openai.ChatCompletionResponse{{}},
			errs:      []error{&openai.APIError{HTTPStatusCode: 401, Message: "invalid api key"}},
		}
		s := shorten.NewTestShortener(mock)

		_, err := s.Shorten(context.Background(), sampleSegments())
		if !errors.Is(err, apierr.ErrAuthFailed) {
			t.Errorf("Shorten() error = %v, want ErrAuthFailed", err)
		}
		if mock.calls != 1 {
			t.Errorf("calls = %d, want 1", mock.calls)
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildPrompt
// ---------------------------------------------------------------------------

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	segments := []shorten.Segment{
		{
			Index:         7,
			OriginalText:  "This is the text to shorten",
			CharsToReduce: 12,
			ContextBefore: "Previous line",
			NextIsUpper:   false,
		},
	}

	prompt := shorten.BuildPrompt(segments)

	for _, want := range []string{
		"Index: 7",
		"reduce by 12",
		`"This is the text to shorten"`,
		"Previous line...",
		"(end)",
		"next_is_uppercase: false",
		"JSON array",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
