package cli

// Mock implementations of the Env interfaces.
// Each mock records its calls and delegates to an optional *Func field so
// tests can script behavior per case.

import (
	"context"

	"github.com/angelospk/eng-sub-translation-optimize/internal/config"
	"github.com/angelospk/eng-sub-translation-optimize/internal/shorten"
)

// ---------------------------------------------------------------------------
// mockConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)
	calls    int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.calls++
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

// ---------------------------------------------------------------------------
// mockShortener / mockShortenerFactory
// ---------------------------------------------------------------------------

type mockShortener struct {
	ShortenFunc func(ctx context.Context, segments []shorten.Segment) ([]shorten.Segment, error)
	calls       int
}

func (m *mockShortener) Shorten(ctx context.Context, segments []shorten.Segment) ([]shorten.Segment, error) {
	m.calls++
	if m.ShortenFunc != nil {
		return m.ShortenFunc(ctx, segments)
	}
	return segments, nil
}

type mockShortenerFactory struct {
	mockShortener *mockShortener
	gotAPIKey     string
	gotOptCount   int
	calls         int
}

func (m *mockShortenerFactory) NewShortener(apiKey string, opts ...shorten.Option) shorten.Shortener {
	m.calls++
	m.gotAPIKey = apiKey
	m.gotOptCount = len(opts)
	if m.mockShortener != nil {
		return m.mockShortener
	}
	return &mockShortener{}
}

// Compile-time interface verification.
var (
	_ ConfigLoader      = (*mockConfigLoader)(nil)
	_ ShortenerFactory  = (*mockShortenerFactory)(nil)
	_ shorten.Shortener = (*mockShortener)(nil)
)
