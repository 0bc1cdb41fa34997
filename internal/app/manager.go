package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/andyballingall/cargo-fmt-all/internal/batch"
	"github.com/andyballingall/cargo-fmt-all/internal/report"
)

// Manager defines the business logic behind the command line.
type Manager interface {
	FormatTree(ctx context.Context, root string, format string, useColour bool) (*batch.Report, error)
	WatchTree(ctx context.Context, root string, readyChan chan<- struct{}) error
	Close() error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) FormatTree(ctx context.Context, root string, format string, useColour bool,
) (*batch.Report, error) {
	return l.check().FormatTree(ctx, root, format, useColour)
}

func (l *LazyManager) WatchTree(ctx context.Context, root string, readyChan chan<- struct{}) error {
	return l.check().WatchTree(ctx, root, readyChan)
}

// Close releases the inner manager's resources. It is safe to call before initialization.
func (l *LazyManager) Close() error {
	if l.inner == nil {
		return nil
	}
	return l.inner.Close()
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	formatter      *batch.Formatter
	logCloser      io.Closer
	reporterWriter io.Writer
}

func NewCLIManager(l *slog.Logger, f *batch.Formatter, logCloser io.Closer, reporterWriter io.Writer) *CLIManager {
	return &CLIManager{
		logger:         l,
		formatter:      f,
		logCloser:      logCloser,
		reporterWriter: reporterWriter,
	}
}

// FormatTree runs the formatter over root and, unless format is "none", writes a
// summary. The error is the run's *batch.FatalError, if it was abandoned.
func (m *CLIManager) FormatTree(ctx context.Context, root string, format string, useColour bool,
) (*batch.Report, error) {
	m.logger.Debug("formatting tree", "root", root, "marker", m.formatter.Marker(),
		"command", m.formatter.Command().String(), "format", format)

	rep := m.formatter.Run(ctx, root)

	var reporter batch.Reporter
	switch format {
	case reportJSON:
		reporter = &report.JSONReporter{}
	case reportText:
		reporter = &report.TextReporter{UseColour: useColour}
	}

	if reporter != nil {
		if err := reporter.Write(m.reporterWriter, rep); err != nil {
			m.logger.Error("Failed to write report", "error", err)
		}
	}

	return rep, rep.Err()
}

// WatchTree re-runs the formatter for source changes under root until ctx is
// cancelled, which is not treated as an error.
// If you want to know when the watcher is ready to start listening to changes,
// pass a non-nil readyChan to be notified.
func (m *CLIManager) WatchTree(ctx context.Context, root string, readyChan chan<- struct{}) error {
	m.logger.Debug("watching tree", "root", root)

	watcher := batch.NewWatcher(m.formatter, m.logger)

	if readyChan != nil {
		go func() {
			select {
			case <-watcher.Ready:
				readyChan <- struct{}{}
			case <-ctx.Done():
			}
		}()
	}

	err := watcher.Watch(ctx, root, nil)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *CLIManager) Close() error {
	if m.logCloser == nil {
		return nil
	}
	return m.logCloser.Close()
}
