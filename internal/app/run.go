package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/andyballingall/cargo-fmt-all/internal/batch"
	"github.com/andyballingall/cargo-fmt-all/internal/fs"
)

// Run executes the command line in args (including the program name) and returns
// an error if the process should exit with a failure status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, envProvider fs.EnvProvider) error {
	logLevel := &slog.LevelVar{}
	logLevel.Set(slog.LevelInfo)

	// Local lazy instance ensures t.Parallel() safety
	lazy := &LazyManager{}
	defer lazy.Close()

	if envProvider == nil {
		envProvider = fs.NewEnvProvider()
	}

	rootCmd := NewRootCmd(lazy, logLevel, stdout, stderr, envProvider)
	rootCmd.SetArgs(args[1:]) // Skip the program name
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// A fatal run has already been diagnosed by the formatter.
		var fatal *batch.FatalError
		if !errors.As(err, &fatal) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return err
	}

	return nil
}

// ExitCode maps the result of Run to the process exit status.
func ExitCode(err error) int {
	if err != nil {
		return int(batch.StatusFailed)
	}
	return int(batch.StatusOK)
}
