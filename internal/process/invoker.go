package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/logging"
)

// Options control a single invocation.
type Options struct {
	// WorkDir is the directory the command runs in. Empty means the current directory.
	WorkDir string

	// Timeout bounds the command. Zero means no timeout.
	Timeout time.Duration

	// LiveOutput receives stdout and stderr as they are produced.
	// Output is captured in the Result either way.
	LiveOutput io.Writer

	// FailOnNonZeroExit turns a non-zero exit status into ErrExternalToolFailure.
	// Scanners that signal findings through their exit status leave it unset.
	FailOnNonZeroExit bool
}

// Invoker runs external commands and reports their outcome.
type Invoker struct {
	runner CommandRunner
	logger zerolog.Logger
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithRunner replaces the command runner, mainly for tests.
func WithRunner(r CommandRunner) InvokerOption {
	return func(i *Invoker) {
		i.runner = r
	}
}

// WithLogger sets the logger used for command start and failure events.
func WithLogger(logger zerolog.Logger) InvokerOption {
	return func(i *Invoker) {
		i.logger = logger
	}
}

// NewInvoker creates an Invoker backed by ShellRunner.
func NewInvoker(opts ...InvokerOption) *Invoker {
	i := &Invoker{
		runner: &ShellRunner{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run executes command and returns its captured result.
//
// The returned error is non-nil when the command could not be started, timed
// out, or exited non-zero while FailOnNonZeroExit is set. In every case the
// partial Result is still returned.
func (i *Invoker) Run(ctx context.Context, command string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := i.logger.With().Str("command", logging.SafeValue("command", command)).Logger()
	log.Info().Str("work_dir", opts.WorkDir).Msg("executing external command")

	cmdCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	startedAt := time.Now()
	stdout, stderr, exitCode, runErr := i.runner.Run(cmdCtx, opts.WorkDir, command, opts.LiveOutput)
	completedAt := time.Now()

	result := &Result{
		Command:     command,
		Success:     runErr == nil && exitCode == 0,
		ExitCode:    exitCode,
		Stdout:      stdout,
		Stderr:      stderr,
		DurationMs:  completedAt.Sub(startedAt).Milliseconds(),
		StartedAt:   startedAt,
		CompletedAt: completedAt,
	}

	return result, i.handleOutcome(ctx, cmdCtx, result, runErr, opts, &log)
}

func (i *Invoker) handleOutcome(ctx, cmdCtx context.Context, result *Result, runErr error, opts Options, log *zerolog.Logger) error {
	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		result.Success = false
		result.Error = "command timed out"
		log.Error().Dur("timeout", opts.Timeout).Msg("external command timed out")
		return fmt.Errorf("%s: %w", logging.FilterSensitiveValue(result.Command), gaerrors.ErrCommandTimeout)
	}

	if err := ctx.Err(); err != nil {
		result.Success = false
		result.Error = "context canceled"
		return err
	}

	if runErr != nil && result.ExitCode < 0 {
		result.Error = runErr.Error()
		log.Error().Err(runErr).Msg("external command could not be started")
		return fmt.Errorf("start %s: %s: %w", logging.FilterSensitiveValue(result.Command), runErr.Error(), gaerrors.ErrExternalToolFailure)
	}

	if result.ExitCode != 0 {
		result.Error = fmt.Sprintf("exit code %d", result.ExitCode)
		if opts.FailOnNonZeroExit {
			log.Error().Int("exit_code", result.ExitCode).Int64("duration_ms", result.DurationMs).Msg("external command failed")
			return fmt.Errorf("%s exited with code %d: %w",
				logging.FilterSensitiveValue(result.Command), result.ExitCode, gaerrors.ErrExternalToolFailure)
		}
		log.Warn().Int("exit_code", result.ExitCode).Msg("external command exited non-zero, continuing")
		return nil
	}

	log.Info().Int64("duration_ms", result.DurationMs).Msg("external command completed")
	return nil
}
