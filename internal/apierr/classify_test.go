package apierr_test

// Coverage Notes:
// - Classify: every handled HTTP status, quota vs rate limit on 429,
//   context deadline, passthrough of unknown errors.
// - IsRetryable: sentinels, raw 5xx API errors, cancellation.

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/angelospk/eng-sub-translation-optimize/internal/apierr"
)

func apiError(status int, message string) *openai.APIError {
	return &openai.APIError{HTTPStatusCode: status, Message: message}
}

// ---------------------------------------------------------------------------
// TestClassify - HTTP status to sentinel mapping
// ---------------------------------------------------------------------------

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"429 rate limit", apiError(429, "rate limit exceeded"), apierr.ErrRateLimit},
		{"429 quota message", apiError(429, "you exceeded your current quota"), apierr.ErrQuotaExceeded},
		{"429 billing message", apiError(429, "billing hard limit reached"), apierr.ErrQuotaExceeded},
		{"401 unauthorized", apiError(401, "invalid api key"), apierr.ErrAuthFailed},
		{"408 request timeout", apiError(408, "request timeout"), apierr.ErrTimeout},
		{"504 gateway timeout", apiError(504, "gateway timeout"), apierr.ErrTimeout},
		{"400 bad request", apiError(400, "invalid request"), apierr.ErrBadRequest},
		{"403 forbidden", apiError(403, "forbidden"), apierr.ErrBadRequest},
		{"404 not found", apiError(404, "model not found"), apierr.ErrBadRequest},
		{"context deadline", context.DeadlineExceeded, apierr.ErrTimeout},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := apierr.Classify(tt.err)
			if !errors.Is(got, tt.sentinel) {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.sentinel)
			}
		})
	}

	t.Run("unknown errors pass through", func(t *testing.T) {
		t.Parallel()

		plain := errors.New("something else")
		if got := apierr.Classify(plain); got != plain {
			t.Errorf("Classify(%v) = %v, want same error", plain, got)
		}
	})

	t.Run("unhandled status passes through", func(t *testing.T) {
		t.Parallel()

		err := apiError(500, "internal server error")
		if got := apierr.Classify(err); got != error(err) {
			t.Errorf("Classify(500) = %v, want same error", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestIsRetryable - transient error detection
// ---------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", apierr.ErrRateLimit, true},
		{"timeout", apierr.ErrTimeout, true},
		{"quota exceeded", apierr.ErrQuotaExceeded, false},
		{"auth failed", apierr.ErrAuthFailed, false},
		{"bad request", apierr.ErrBadRequest, false},
		{"500 server error", apiError(500, "internal"), true},
		{"502 bad gateway", apiError(502, "bad gateway"), true},
		{"503 unavailable", apiError(503, "overloaded"), true},
		{"context canceled", context.Canceled, false},
		{"plain error", errors.New("whatever"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := apierr.IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
