package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/andyballingall/cargo-fmt-all/internal/batch"
	"github.com/andyballingall/cargo-fmt-all/internal/config"
	"github.com/andyballingall/cargo-fmt-all/internal/fs"
	"github.com/andyballingall/cargo-fmt-all/internal/runner"
	"github.com/andyballingall/cargo-fmt-all/internal/validator"
)

// Version is the current version of cargo-fmt-all, set at build time.
var Version = "dev"

// DefaultRoot is the directory formatted when no single root is given.
const DefaultRoot = "."

var LongDescription = `
cargo-fmt-all walks a directory tree and runs 'cargo fmt' in every directory
that contains a Cargo.toml, one directory at a time.

A directory whose formatter exits non-zero is reported and the walk continues.
If the formatter cannot be run at all, the walk stops and the exit status is 1.
`

// RootFromArgs returns the directory to walk: the argument if exactly one was
// given, otherwise DefaultRoot. Extra arguments are ignored, not rejected.
func RootFromArgs(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return DefaultRoot
}

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer, env fs.EnvProvider,
) *cobra.Command {
	var debug bool
	var noColour bool
	var watch bool
	var configPath pathValue
	reportFormat := reportValue(reportNone)

	rootCmd := &cobra.Command{
		Use:           "cargo-fmt-all [root-directory]",
		Short:         "Run cargo fmt in every Cargo.toml directory of a tree",
		Long:          LongDescription,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			logger, logCloser, err := setupLogger(stderr, ll, env.Get(LogEnvVar))
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			cfg := config.Default()
			if configPath != "" {
				cfg, err = config.Load(string(configPath), validator.NewSanthoshCompiler())
				if err != nil {
					_ = logCloser.Close()
					return fmt.Errorf("configuration failed: %w", err)
				}
			}

			formatter := batch.NewFormatter(logger, runner.NewExecRunner(), cfg, stdout)
			lazy.SetInner(NewCLIManager(logger, formatter, logCloser, stdout))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := RootFromArgs(args)
			if _, err := lazy.FormatTree(cmd.Context(), root, string(reportFormat), !noColour); err != nil {
				return err
			}
			if watch {
				return lazy.WatchTree(cmd.Context(), root, nil)
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().VarP(&configPath, "config", "f", "Read marker and command settings from a YAML file")
	rootCmd.Flags().VarP(&reportFormat, "report", "r", "Print a summary after the run (none, text, json)")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep watching for source changes after the run")

	rootCmd.Flags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.Flags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.Flags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.Flags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.Flags().MarkHidden("nocolor")
	_ = rootCmd.Flags().MarkHidden("noColor")
	_ = rootCmd.Flags().MarkHidden("noColour")

	return rootCmd
}
