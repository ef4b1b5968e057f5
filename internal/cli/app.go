package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/gitassist/internal/branch"
	"github.com/mrz1836/gitassist/internal/clock"
	"github.com/mrz1836/gitassist/internal/config"
	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/decision"
	"github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/flock"
	"github.com/mrz1836/gitassist/internal/git"
	"github.com/mrz1836/gitassist/internal/pipeline"
	"github.com/mrz1836/gitassist/internal/process"
	"github.com/mrz1836/gitassist/internal/stages"
	"github.com/mrz1836/gitassist/internal/tui"
)

// branchCleaner deletes merged remote branches.
type branchCleaner interface {
	Clean(ctx context.Context) (*branch.CleanupReport, error)
}

// toolDetector reports which external tools are installed.
type toolDetector interface {
	Detect(ctx context.Context) (*config.ToolDetectionResult, error)
}

// app is everything one command invocation needs.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	w        io.Writer
	format   string
	out      tui.Output
	decision decision.Decision
	registry *pipeline.Registry
	cleaner  branchCleaner

	// lock acquires the work directory lock and returns its release func.
	lock func() (func(), error)
	// rotateLog starts a fresh run log before each pipeline run.
	rotateLog func() error
	// pipelineOpts are appended to the options every pipeline is built with.
	pipelineOpts []pipeline.Option
	// showReport renders generated Markdown reports after a run.
	showReport bool
}

// newDefaultApp wires the real collaborators for the current directory.
func newDefaultApp(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags) (*app, error) {
	logger := GetLogger()
	ctx = logger.WithContext(ctx)

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	w := cmd.OutOrStdout()
	out := tui.NewOutput(w, flags.Output)
	dec := decision.New(cmd.InOrStdin(), w)

	var runner git.Runner
	if r, gitErr := git.NewRunner(ctx, workDir); gitErr != nil {
		logger.Debug().Err(gitErr).Str("work_dir", workDir).Msg("git unavailable, git stages will fail")
		runner = &git.UnavailableRunner{Err: gitErr}
	} else {
		runner = r
	}

	// Tool output goes to stderr in JSON mode so stdout stays parseable.
	live := w
	if flags.Output == OutputJSON {
		live = cmd.ErrOrStderr()
	}

	deps := stages.Deps{
		Config:     cfg,
		WorkDir:    workDir,
		Invoker:    process.NewInvoker(process.WithLogger(logger)),
		Git:        runner,
		Tools:      config.NewToolDetector(),
		Decision:   dec,
		Out:        out,
		Logger:     logger,
		Clock:      clock.RealClock{},
		LiveOutput: live,
	}

	cleaner := branch.NewCleaner(runner, dec, out,
		branch.WithRemote(cfg.Git.Remote),
		branch.WithBaseCandidates(cfg.Git.BaseBranches),
		branch.WithLogger(logger),
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		w:         w,
		format:    flags.Output,
		out:       out,
		decision:  dec,
		registry:  stages.Registry(deps),
		cleaner:   cleaner,
		lock:      runLock(filepath.Join(workDir, constants.Home, constants.RunLockFileName), logger),
		rotateLog: RotateRunLog,
	}, nil
}

// runLock returns an acquire func for the lock file at path.
func runLock(path string, logger zerolog.Logger) func() (func(), error) {
	return func() (func(), error) {
		lock, err := flock.Acquire(path)
		if err != nil {
			if stderrors.Is(err, flock.ErrLocked) {
				return nil, fmt.Errorf("%w: %s", errors.ErrRunInProgress, path)
			}
			return nil, err
		}
		return func() {
			if err := lock.Release(); err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("could not release run lock")
			}
		}, nil
	}
}

// acquire takes the work directory lock when one is wired.
func (a *app) acquire() (func(), error) {
	if a.lock == nil {
		return func() {}, nil
	}
	return a.lock()
}

// execute runs the named stages and prints the outcome. The run is nil
// only when the work directory lock could not be taken.
func (a *app) execute(ctx context.Context, names []string, mode pipeline.Mode) (*pipeline.Run, error) {
	release, err := a.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	a.rotateRunLog()

	opts := []pipeline.Option{pipeline.WithLogger(a.logger)}
	if a.format != OutputJSON {
		opts = append(opts, pipeline.WithObserver(a.reportStage))
	}
	opts = append(opts, a.pipelineOpts...)

	p := pipeline.New(a.registry, opts...)
	run := p.Execute(ctx, names, mode)

	a.printRun(run)
	if a.showReport && a.format != OutputJSON {
		a.renderReports(run)
	}
	return run, nil
}

// reportStage prints one line as each stage finishes.
func (a *app) reportStage(res *pipeline.StageResult) {
	switch {
	case res.Succeeded():
		a.out.Success(stageLine(res))
	case res.Err != nil:
		a.out.Error(fmt.Errorf("%s: %w", res.Stage, res.Err))
	default:
		a.out.Warning(stageLine(res))
	}
}

func stageLine(res *pipeline.StageResult) string {
	if res.Reason == "" {
		return res.Stage
	}
	return res.Stage + ": " + res.Reason
}

// printRun writes the run summary.
func (a *app) printRun(run *pipeline.Run) {
	if a.format == OutputJSON {
		if err := a.out.JSON(run); err != nil {
			a.logger.Error().Err(err).Msg("failed to encode run summary")
		}
		return
	}

	for _, warning := range run.Warnings {
		a.out.Warning(warning)
	}
	if len(run.Results) == 0 && len(run.Skipped) == 0 {
		return
	}

	rows := make([][]string, 0, len(run.Results)+len(run.Skipped))
	for _, res := range run.Results {
		rows = append(rows, []string{
			res.Stage,
			tui.OutcomeIcon(string(res.Outcome)) + " " + string(res.Outcome),
			res.Reason,
			formatDuration(res.DurationMs),
		})
	}
	for _, name := range run.Skipped {
		rows = append(rows, []string{name, tui.OutcomeIcon("skipped") + " skipped", "not reached", ""})
	}

	_, _ = fmt.Fprintln(a.w)
	a.out.Table([]string{"STAGE", "OUTCOME", "REASON", "DURATION"}, rows)
}

func formatDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(time.Millisecond).String()
}

// renderReports shows every Markdown artifact produced by the run.
func (a *app) renderReports(run *pipeline.Run) {
	for _, res := range run.Results {
		for _, artifact := range res.Artifacts {
			if filepath.Ext(artifact) != ".md" {
				continue
			}
			data, err := os.ReadFile(artifact) //nolint:gosec // Path produced by the report writer
			if err != nil {
				a.logger.Warn().Err(err).Str("artifact", artifact).Msg("cannot read report")
				continue
			}
			if err := tui.RenderMarkdown(a.w, string(data)); err != nil {
				a.logger.Warn().Err(err).Str("artifact", artifact).Msg("cannot render report")
			}
		}
	}
}

// runError converts a finished run into the command's error.
func runError(run *pipeline.Run) error {
	if len(run.Results) == 0 && len(run.Skipped) == 0 && len(run.Warnings) > 0 {
		return fmt.Errorf("%w: %s", errors.ErrUnrecognizedSelection, strings.Join(run.Warnings, "; "))
	}
	if !run.Failed() {
		return nil
	}
	failed := make([]string, 0, len(run.Results))
	for _, res := range run.Failures() {
		failed = append(failed, res.Stage)
	}
	return fmt.Errorf("%w: %s", errors.ErrRunFailed, strings.Join(failed, ", "))
}
