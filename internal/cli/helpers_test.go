package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/angelospk/eng-sub-translation-optimize/internal/config"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	shortener    *mockShortenerFactory
}

func newTestMocks() *testMocks {
	return &testMocks{
		configLoader: &mockConfigLoader{},
		shortener:    &mockShortenerFactory{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

func withTestMocks(m *testMocks) testEnvOption {
	return func(o *testEnvOptions) { o.mocks = m }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		getenv: func(string) string { return "" },
		mocks:  newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stdout:           options.stdout,
		Stderr:           options.stderr,
		Getenv:           options.getenv,
		ConfigLoader:     options.mocks.configLoader,
		ShortenerFactory: options.mocks.shortener,
	}

	return env, options.mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// writeTestSRT writes an SRT file into a temp dir and returns its path.
func writeTestSRT(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test SRT file: %v", err)
	}
	return path
}

// configWithOutputDir returns a ConfigLoader that returns a config with the given output directory.
func configWithOutputDir(outputDir string) *mockConfigLoader {
	return &mockConfigLoader{
		LoadFunc: func() (config.Config, error) {
			return config.Config{OutputDir: outputDir}, nil
		},
	}
}

// testStderr returns the stderr buffer contents of a testEnv Env.
func testStderr(t *testing.T, env *Env) string {
	t.Helper()
	buf, ok := env.Stderr.(*syncBuffer)
	if !ok {
		t.Fatal("env.Stderr is not a *syncBuffer")
	}
	return buf.String()
}

// testStdout returns the stdout buffer contents of a testEnv Env.
func testStdout(t *testing.T, env *Env) string {
	t.Helper()
	buf, ok := env.Stdout.(*syncBuffer)
	if !ok {
		t.Fatal("env.Stdout is not a *syncBuffer")
	}
	return buf.String()
}

// Sample SRT content shared by command tests.
const (
	// basicSRT exercises interjection removal: the first entry gets cleaned,
	// the second becomes empty and is dropped, the third stays as-is.
	basicSRT = `1
00:00:01,000 --> 00:00:03,000
Oh, hello there!

2
00:00:04,000 --> 00:00:06,000
Hmm.

3
00:00:07,000 --> 00:00:09,000
How are you today?
`

	// fastSRT contains one entry that reads far too fast and cannot be fixed
	// by timing because the following entry starts right behind it.
	fastSRT = `1
00:00:01,000 --> 00:00:01,500
This is an extremely long line that reads far too fast to follow!

2
00:00:01,550 --> 00:00:03,000
Something after.
`
)
