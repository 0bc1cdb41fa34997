package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/andyballingall/cargo-fmt-all/internal/batch"
	"github.com/andyballingall/cargo-fmt-all/internal/runner"
)

func newReport() *batch.Report {
	start := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	return &batch.Report{
		Root:     "workspace",
		Marker:   "Cargo.toml",
		Command:  runner.NewCommand("cargo", "fmt"),
		Started:  start,
		Finished: start.Add(2 * time.Second),
		Results: []batch.Result{
			{Dir: "workspace/a", Outcome: batch.OutcomeOK},
			{Dir: "workspace/b", Outcome: batch.OutcomeExitStatus, ExitCode: 1},
		},
	}
}

func abandoned() *batch.Report {
	r := newReport()
	fatal := &batch.FatalError{
		Dir:     "workspace/c",
		Outcome: batch.OutcomeUnavailable,
		Wrapped: &runner.CommandNotFoundError{Name: "cargo"},
	}
	r.Results = append(r.Results, batch.Result{
		Dir: "workspace/c", Outcome: batch.OutcomeUnavailable, ExitCode: -1, Err: fatal,
	})
	r.Fatal = fatal
	return r
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	t.Run("completed run", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, (&TextReporter{}).Write(&buf, newReport()))

		output := buf.String()
		assert.Contains(t, output, "FORMAT REPORT")
		assert.Contains(t, output, "Root:     workspace")
		assert.Contains(t, output, "Command:  cargo fmt")
		assert.Contains(t, output, "Duration: 2s")
		assert.Contains(t, output, "[OK] workspace/a")
		assert.Contains(t, output, "[FAIL exit 1] workspace/b")
		assert.Contains(t, output, "Summary: 1 formatted, 1 failed")
		assert.NotContains(t, output, "Aborted")
		assert.NotContains(t, output, "\033[")
	})

	t.Run("abandoned run", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, (&TextReporter{}).Write(&buf, abandoned()))

		output := buf.String()
		assert.Contains(t, output, "[ERROR] workspace/c")
		assert.Contains(t, output, "    formatting aborted in workspace/c: 'cargo' command not found")
		assert.Contains(t, output, "Aborted: formatting aborted in workspace/c")
	})

	t.Run("nothing to format", func(t *testing.T) {
		t.Parallel()
		r := newReport()
		r.Results = nil
		var buf bytes.Buffer
		require.NoError(t, (&TextReporter{}).Write(&buf, r))
		assert.Contains(t, buf.String(), "No directories contain Cargo.toml")
		assert.Contains(t, buf.String(), "Summary: 0 formatted, 0 failed")
	})

	t.Run("colour mode", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, (&TextReporter{UseColour: true}).Write(&buf, abandoned()))
		output := buf.String()
		assert.Contains(t, output, colGreen+"[OK]"+colReset)
		assert.Contains(t, output, colYellow+"[FAIL exit 1]"+colReset)
		assert.Contains(t, output, colRed+"[ERROR]"+colReset)
		assert.Contains(t, output, colBoldRed)
	})
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	t.Run("completed run", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, (&JSONReporter{}).Write(&buf, newReport()))

		doc := buf.String()
		require.True(t, gjson.Valid(doc))
		assert.Equal(t, "workspace", gjson.Get(doc, "root").String())
		assert.Equal(t, "Cargo.toml", gjson.Get(doc, "marker").String())
		assert.Equal(t, "cargo fmt", gjson.Get(doc, "command").String())
		assert.Equal(t, "2026-10-15T09:30:00Z", gjson.Get(doc, "startTime").String())
		assert.Equal(t, "2s", gjson.Get(doc, "duration").String())
		assert.Equal(t, int64(0), gjson.Get(doc, "status").Int())
		assert.Equal(t, int64(2), gjson.Get(doc, "stats.invocations").Int())
		assert.Equal(t, int64(1), gjson.Get(doc, "stats.failures").Int())
		assert.Equal(t, []string{"workspace/a", "workspace/b"}, stringsOf(gjson.Get(doc, "results.#.dir")))
		assert.Equal(t, []string{"ok", "exit-status"}, stringsOf(gjson.Get(doc, "results.#.outcome")))
		assert.Equal(t, int64(1), gjson.Get(doc, "results.1.exitCode").Int())
		assert.False(t, gjson.Get(doc, "results.0.error").Exists())
		assert.False(t, gjson.Get(doc, "fatal").Exists())
	})

	t.Run("abandoned run", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, (&JSONReporter{}).Write(&buf, abandoned()))

		doc := buf.String()
		assert.Equal(t, int64(1), gjson.Get(doc, "status").Int())
		assert.Equal(t, "unavailable", gjson.Get(doc, "results.2.outcome").String())
		assert.Equal(t, int64(-1), gjson.Get(doc, "results.2.exitCode").Int())
		assert.Contains(t, gjson.Get(doc, "results.2.error").String(), "command not found")
		assert.Contains(t, gjson.Get(doc, "fatal").String(), "formatting aborted in workspace/c")
	})

	t.Run("empty results are an empty array", func(t *testing.T) {
		t.Parallel()
		r := newReport()
		r.Results = nil
		var buf bytes.Buffer
		require.NoError(t, (&JSONReporter{}).Write(&buf, r))
		assert.True(t, gjson.Get(buf.String(), "results").IsArray())
		assert.Empty(t, gjson.Get(buf.String(), "results").Array())
	})

	t.Run("write error", func(t *testing.T) {
		t.Parallel()
		err := (&JSONReporter{}).Write(failingWriter{}, newReport())
		require.Error(t, err)
	})
}

func stringsOf(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}
