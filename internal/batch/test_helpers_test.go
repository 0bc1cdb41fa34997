package batch

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andyballingall/cargo-fmt-all/internal/config"
	"github.com/andyballingall/cargo-fmt-all/internal/runner"
)

// MockRunner is a test mock for the runner.Runner interface. It records the
// directory of every call and, by default, succeeds with no output.
type MockRunner struct {
	mu      sync.Mutex
	calls   []string
	RunFunc func(dir string, cmd runner.Command) (*runner.Invocation, error)
}

func (m *MockRunner) Run(_ context.Context, dir string, cmd runner.Command) (*runner.Invocation, error) {
	m.mu.Lock()
	m.calls = append(m.calls, dir)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(dir, cmd)
	}
	return &runner.Invocation{Dir: dir, Command: cmd}, nil
}

func (m *MockRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// exitWith returns a RunFunc which exits with code in every directory, writing output.
func exitWith(code int, output string) func(string, runner.Command) (*runner.Invocation, error) {
	return func(dir string, cmd runner.Command) (*runner.Invocation, error) {
		return &runner.Invocation{Dir: dir, Command: cmd, ExitCode: code, Output: []byte(output)}, nil
	}
}

type testFormatter struct {
	*Formatter
	runner *MockRunner
	stdout *syncBuffer
	stderr *syncBuffer
}

func newTestFormatter(t *testing.T, r *MockRunner) *testFormatter {
	t.Helper()
	if r == nil {
		r = &MockRunner{}
	}
	stdout := &syncBuffer{}
	stderr := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := NewFormatter(logger, r, config.Default(), stdout)
	return &testFormatter{Formatter: f, runner: r, stdout: stdout, stderr: stderr}
}

// syncBuffer is a bytes.Buffer which is safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// mkTree creates the given files (relative to root) along with their parents.
func mkTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
}

func under(root string, rel ...string) []string {
	out := make([]string, 0, len(rel))
	for _, r := range rel {
		out = append(out, filepath.Join(root, filepath.FromSlash(r)))
	}
	return out
}
