// Package cli provides the command-line interface for gitassist.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/gitassist/internal/config"
	"github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/signal"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// It is set during PersistentPreRunE and should be accessed via GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// It MUST only be called after the root command's PersistentPreRunE has
// executed. Before that it returns a zero-value logger that discards
// everything. Safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// environment holds the seams commands use to reach the outside world.
type environment struct {
	// initLogger builds the CLI logger once flags are parsed.
	initLogger func(flags *GlobalFlags) zerolog.Logger
	// newApp wires the application for one command invocation.
	newApp func(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags) (*app, error)
	// newTools builds the tool detector used by doctor.
	newTools func() toolDetector
}

func defaultEnvironment() *environment {
	return &environment{
		initLogger: func(flags *GlobalFlags) zerolog.Logger {
			logDir := config.LogDir()
			if wd, err := os.Getwd(); err == nil {
				logDir = filepath.Join(wd, logDir)
			}
			return InitLogger(flags.Verbose, flags.Quiet, logDir)
		},
		newApp: newDefaultApp,
		newTools: func() toolDetector {
			return config.NewToolDetector()
		},
	}
}

// newRootCmd creates and returns the root command for the gitassist CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo, env *environment) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "gitassist",
		Short: "Pre-merge workflow assistant",
		Long: `gitassist runs the pre-merge checklist for a Maven project:
build, quality gate, vulnerability gate, commit, and push.

Run without a subcommand to open the interactive menu.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenuCommand(cmd, flags, env)
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			applyBoundFlags(v, flags)

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalLogger = env.initLogger(flags)
			globalLoggerMu.Unlock()

			return nil
		},
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, flags)

	addMenuCommand(cmd, flags, env)
	addRunCommand(cmd, flags, env)
	addStageCommands(cmd, flags, env)
	addCleanBranchesCommand(cmd, flags, env)
	addDoctorCommand(cmd, flags, env)
	addConfigCommand(cmd, flags)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
// The first Ctrl+C cancels the run; stages not yet started are skipped.
func Execute(ctx context.Context, info BuildInfo) error {
	defer CloseLogFile()

	h := signal.NewHandler(ctx, signal.WithOnInterrupt(func(sig os.Signal) {
		logger := GetLogger()
		logger.Warn().Str("signal", sig.String()).Msg("interrupt received, canceling the run (press Ctrl+C again to exit now)")
	}))
	defer h.Stop()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info, defaultEnvironment())
	return cmd.ExecuteContext(h.Context())
}
