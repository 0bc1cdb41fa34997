// Package batch runs a formatter in every directory of a tree which contains a
// marker file, and aggregates the outcome of the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/andyballingall/cargo-fmt-all/internal/config"
	"github.com/andyballingall/cargo-fmt-all/internal/fs"
	"github.com/andyballingall/cargo-fmt-all/internal/runner"
)

// Formatter walks a directory tree and runs a command wherever the marker file is found.
// Directories are processed one at a time; each invocation completes before the walk continues.
type Formatter struct {
	logger  *slog.Logger
	runner  runner.Runner
	command runner.Command
	marker  string
	stdout  io.Writer
	now     func() time.Time
}

// NewFormatter creates a Formatter which runs cfg's command through r, writing
// progress and command output to stdout and diagnostics to l.
func NewFormatter(l *slog.Logger, r runner.Runner, cfg *config.Config, stdout io.Writer) *Formatter {
	return &Formatter{
		logger:  l,
		runner:  r,
		command: cfg.FormatCommand(),
		marker:  cfg.Marker,
		stdout:  stdout,
		now:     time.Now,
	}
}

// Marker returns the name of the file which marks a directory for formatting.
func (f *Formatter) Marker() string {
	return f.marker
}

// Command returns the command run in each marked directory.
func (f *Formatter) Command() runner.Command {
	return f.command
}

// Run formats every marked directory under root, root included. A non-zero exit
// from the command is reported and the walk continues; a command which cannot be
// run at all ends the walk. The returned Report is never nil.
func (f *Formatter) Run(ctx context.Context, root string) *Report {
	rep := &Report{
		Root:    root,
		Marker:  f.marker,
		Command: f.command,
		Started: f.now(),
	}

	walker := fs.NewWalker()
	walker.OnError = func(path string, err error) {
		f.logger.Debug("skipping unreadable directory", "dir", path, "error", err)
	}

	err := walker.Walk(ctx, root, func(d fs.Dir) error {
		if !d.HasFile(f.marker) {
			return nil
		}
		res := f.RunDir(ctx, d.Path)
		rep.Results = append(rep.Results, res)
		return res.Err
	})

	var fatal *FatalError
	if err != nil && !errors.As(err, &fatal) {
		f.logger.Error("Run interrupted", "error", err)
		fatal = &FatalError{Outcome: OutcomeOtherError, Wrapped: err}
	}
	if fatal != nil {
		rep.Fatal = fatal
	}

	rep.Finished = f.now()
	f.logger.Debug("run complete", "root", root, "invocations", rep.Invocations(),
		"failures", rep.Failures(), "status", int(rep.Status()))
	return rep
}

// RunDir runs the command once in dir, without checking for the marker file.
// If the command could not be run, the Result's Err is a *FatalError.
func (f *Formatter) RunDir(ctx context.Context, dir string) Result {
	fmt.Fprintf(f.stdout, "Running '%s' in: %s\n", f.command, dir)

	inv, err := f.runner.Run(ctx, dir, f.command)
	if err != nil {
		return f.fatalResult(dir, err)
	}

	_, _ = f.stdout.Write(inv.Output)

	res := Result{Dir: dir, ExitCode: inv.ExitCode, Output: inv.Output, Outcome: OutcomeOK}
	if inv.Failed() {
		res.Outcome = OutcomeExitStatus
		f.logger.Warn(fmt.Sprintf("%s failed in %s with exit code %d", f.command, dir, inv.ExitCode),
			"dir", dir, "exitCode", inv.ExitCode)
	}
	return res
}

func (f *Formatter) fatalResult(dir string, err error) Result {
	res := Result{Dir: dir, ExitCode: -1}

	var notFound *runner.CommandNotFoundError
	if errors.As(err, &notFound) {
		res.Outcome = OutcomeUnavailable
		f.logger.Error(fmt.Sprintf("'%s' command not found. Ensure it is installed and in PATH.", notFound.Name),
			"dir", dir)
	} else {
		res.Outcome = OutcomeOtherError
		cause := err
		var ie *runner.InvocationError
		if errors.As(err, &ie) {
			cause = ie.Wrapped
		}
		f.logger.Error("Unexpected error in "+dir, "error", cause)
	}

	res.Err = &FatalError{Dir: dir, Outcome: res.Outcome, Wrapped: err}
	return res
}
