package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/cargo-fmt-all/internal/batch"
	"github.com/andyballingall/cargo-fmt-all/internal/config"
	"github.com/andyballingall/cargo-fmt-all/internal/runner"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) FormatTree(ctx context.Context, root string, format string, useColour bool,
) (*batch.Report, error) {
	args := m.Called(ctx, root, format, useColour)
	rep, _ := args.Get(0).(*batch.Report)
	return rep, args.Error(1)
}

func (m *MockManager) WatchTree(ctx context.Context, root string, readyChan chan<- struct{}) error {
	args := m.Called(ctx, root, readyChan)
	return args.Error(0)
}

func (m *MockManager) Close() error {
	args := m.Called()
	return args.Error(0)
}

// fakeRunner is a test implementation of runner.Runner. Directories listed in
// exitCodes exit with that code; every other directory succeeds.
type fakeRunner struct {
	mu        sync.Mutex
	calls     []string
	exitCodes map[string]int
	err       error
}

func (f *fakeRunner) Run(_ context.Context, dir string, cmd runner.Command) (*runner.Invocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, dir)
	if f.err != nil {
		return nil, f.err
	}
	return &runner.Invocation{Dir: dir, Command: cmd, ExitCode: f.exitCodes[dir]}, nil
}

func (f *fakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// safeBuffer is a thread-safe wrapper around bytes.Buffer for use in concurrent tests.
type safeBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// newTestCLIManager returns a CLIManager over r which logs to stderr and writes
// formatter output and reports to stdout.
func newTestCLIManager(t *testing.T, r runner.Runner, stdout, stderr io.Writer) *CLIManager {
	t.Helper()
	ll := &slog.LevelVar{}
	logger, closer, err := setupLogger(stderr, ll, "")
	require.NoError(t, err)
	f := batch.NewFormatter(logger, r, config.Default(), stdout)
	return NewCLIManager(logger, f, closer, stdout)
}

// mkTree creates each relative path under root. Paths ending in "/" are
// directories; anything else is an empty file.
func mkTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o600))
	}
}

// writeConfig writes a config file into a new temp directory and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cargo-fmt-all.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
