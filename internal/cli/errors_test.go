package cli

import (
	"errors"
	"fmt"
	"testing"
)

// ---------------------------------------------------------------------------
// Tests for sentinel errors
// ---------------------------------------------------------------------------

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrAPIKeyMissing,
		ErrUnsupportedFormat,
		ErrFileNotFound,
		ErrOutputExists,
		ErrNoSubtitles,
	}

	// Verify all sentinels are distinct from each other
	for i, err1 := range sentinels {
		i, err1 := i, err1
		for j, err2 := range sentinels {
			j, err2 := j, err2
			if i != j && errors.Is(err1, err2) {
				t.Errorf("sentinels %d and %d should not match: %v == %v", i, j, err1, err2)
			}
		}
	}
}

func TestSentinelErrors_CanBeWrapped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sentinel error
	}{
		{"ErrAPIKeyMissing", ErrAPIKeyMissing},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrFileNotFound", ErrFileNotFound},
		{"ErrOutputExists", ErrOutputExists},
		{"ErrNoSubtitles", ErrNoSubtitles},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Wrap the error
			wrapped := fmt.Errorf("context: %w", tt.sentinel)

			// errors.Is should still work
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("wrapped error should match sentinel via errors.Is")
			}

			// The wrapped error should contain the original message
			if wrapped.Error() == tt.sentinel.Error() {
				t.Errorf("wrapped error should have additional context")
			}
		})
	}
}

func TestSentinelErrors_HaveMeaningfulMessages(t *testing.T) {
	t.Parallel()

	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrAPIKeyMissing", ErrAPIKeyMissing},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrFileNotFound", ErrFileNotFound},
		{"ErrOutputExists", ErrOutputExists},
		{"ErrNoSubtitles", ErrNoSubtitles},
	}

	for _, tt := range sentinels {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.err == nil {
				t.Fatalf("%s should not be nil", tt.name)
			}
			msg := tt.err.Error()
			if len(msg) < 10 {
				t.Errorf("error message should be descriptive, got: %q", msg)
			}
		})
	}
}
