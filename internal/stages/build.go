package stages

import (
	"context"
	"fmt"

	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/ctxutil"
	"github.com/mrz1836/gitassist/internal/pipeline"
	"github.com/mrz1836/gitassist/internal/process"
)

// Build runs the configured build command with live output.
type Build struct {
	deps Deps
}

var _ pipeline.Stage = (*Build)(nil)

// NewBuild creates the build stage.
func NewBuild(d Deps) *Build {
	return &Build{deps: d}
}

// Name returns "build".
func (s *Build) Name() string { return constants.StageBuild }

// Run executes the build. A non-zero exit fails the stage.
func (s *Build) Run(ctx context.Context) (*pipeline.StageResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	cfg := s.deps.Config.Build
	log := s.deps.logger(s.Name())
	s.deps.Out.Info(fmt.Sprintf("Building: %s", cfg.Command))

	result, err := s.deps.Invoker.Run(ctx, cfg.Command, process.Options{
		WorkDir:           s.deps.WorkDir,
		Timeout:           cfg.Timeout,
		LiveOutput:        s.deps.LiveOutput,
		FailOnNonZeroExit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	log.Info().Int64("duration_ms", result.DurationMs).Msg("build finished")
	s.deps.Out.Success("Build completed")
	return pipeline.Success("build completed"), nil
}
