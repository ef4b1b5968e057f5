package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/gitassist/internal/clock"
	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/ctxutil"
	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// Pipeline executes stages from a registry.
type Pipeline struct {
	registry *Registry
	logger   zerolog.Logger
	clock    clock.Clock
	newID    func() string
	observer func(*StageResult)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for stage events.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithClock sets the clock used for run and stage timestamps.
func WithClock(c clock.Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}

// WithIDGenerator replaces the run id generator.
func WithIDGenerator(fn func() string) Option {
	return func(p *Pipeline) {
		p.newID = fn
	}
}

// WithObserver registers a callback invoked after each stage completes.
func WithObserver(fn func(*StageResult)) Option {
	return func(p *Pipeline) {
		p.observer = fn
	}
}

// New creates a Pipeline over registry.
func New(registry *Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: registry,
		logger:   zerolog.Nop(),
		clock:    clock.RealClock{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunAll executes the canonical stage list in composite mode.
func (p *Pipeline) RunAll(ctx context.Context) *Run {
	return p.Execute(ctx, constants.CompositeStages(), ModeComposite)
}

// Execute runs the named stages in the given order.
//
// Unknown and repeated names are recorded as warnings and skipped. Stage
// errors and panics become Failure results. In ModeComposite the run stops
// at the first failure and the remaining stages are listed as skipped.
func (p *Pipeline) Execute(ctx context.Context, names []string, mode Mode) *Run {
	run := &Run{
		ID:        p.newID(),
		Mode:      mode,
		Selected:  append([]string(nil), names...),
		StartedAt: p.clock.Now(),
	}
	log := p.logger.With().Str("run_id", run.ID).Str("mode", string(mode)).Logger()
	log.Info().Strs("selected", names).Msg("pipeline started")

	stages := p.resolve(names, run, &log)

	for i, stage := range stages {
		if err := ctxutil.Canceled(ctx); err != nil {
			run.Warnings = append(run.Warnings, "run canceled before "+stage.Name())
			for _, rest := range stages[i:] {
				run.Skipped = append(run.Skipped, rest.Name())
			}
			log.Warn().Err(err).Msg("pipeline canceled")
			break
		}

		result := p.runStage(ctx, stage, &log)
		run.Results = append(run.Results, result)
		if p.observer != nil {
			p.observer(result)
		}

		if mode == ModeComposite && !result.Succeeded() {
			for _, rest := range stages[i+1:] {
				run.Skipped = append(run.Skipped, rest.Name())
			}
			log.Warn().Str("stage", stage.Name()).Strs("skipped", run.Skipped).Msg("composite run halted")
			break
		}
	}

	run.CompletedAt = p.clock.Now()
	log.Info().
		Int("results", len(run.Results)).
		Bool("failed", run.Failed()).
		Int64("duration_ms", run.CompletedAt.Sub(run.StartedAt).Milliseconds()).
		Msg("pipeline finished")
	return run
}

func (p *Pipeline) resolve(names []string, run *Run, log *zerolog.Logger) []Stage {
	seen := make(map[string]bool, len(names))
	stages := make([]Stage, 0, len(names))

	for _, name := range names {
		stage, err := p.registry.Get(name)
		if err != nil {
			run.Warnings = append(run.Warnings, fmt.Sprintf("unrecognized stage %q", name))
			log.Warn().Str("stage", name).Msg("unrecognized stage")
			continue
		}
		if seen[name] {
			run.Warnings = append(run.Warnings, fmt.Sprintf("stage %q selected more than once, running it once", name))
			log.Warn().Str("stage", name).Msg("duplicate stage selection")
			continue
		}
		seen[name] = true
		stages = append(stages, stage)
	}
	return stages
}

// runStage runs one stage and always returns a result.
func (p *Pipeline) runStage(ctx context.Context, stage Stage, log *zerolog.Logger) (result *StageResult) {
	name := stage.Name()
	stageLog := log.With().Str("stage", name).Logger()
	stageLog.Info().Msg("stage started")

	startedAt := p.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			stageLog.Error().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("stage panicked")
			result = Failure(fmt.Sprintf("stage panicked: %v", r), fmt.Errorf("%s: panic: %v", name, r)) //nolint:err113 // wraps a recovered value
		}
		p.finish(result, name, startedAt)
		p.logResult(&stageLog, result)
	}()

	res, err := stage.Run(ctx)
	switch {
	case err != nil:
		result = Failure(gaerrors.UserMessage(err), err)
		if res != nil && res.Verdict != nil {
			result.Verdict = res.Verdict
		}
	case res == nil:
		result = Success("")
	default:
		result = res
	}
	return result
}

func (p *Pipeline) finish(result *StageResult, name string, startedAt time.Time) {
	result.Stage = name
	result.StartedAt = startedAt
	result.CompletedAt = p.clock.Now()
	result.DurationMs = result.CompletedAt.Sub(startedAt).Milliseconds()
	if result.Err != nil && result.Error == "" {
		result.Error = result.Err.Error()
	}
}

func (p *Pipeline) logResult(log *zerolog.Logger, result *StageResult) {
	if result.Succeeded() {
		log.Info().Str("reason", result.Reason).Int64("duration_ms", result.DurationMs).Msg("stage completed")
		return
	}
	log.Error().Err(result.Err).Str("reason", result.Reason).Int64("duration_ms", result.DurationMs).Msg("stage failed")
}
