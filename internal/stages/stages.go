// Package stages implements the five workflow stages run by the pipeline:
// build, quality-gate, vulnerability-gate, commit, and push.
package stages

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitassist/internal/clock"
	"github.com/mrz1836/gitassist/internal/config"
	"github.com/mrz1836/gitassist/internal/decision"
	"github.com/mrz1836/gitassist/internal/git"
	"github.com/mrz1836/gitassist/internal/pipeline"
	"github.com/mrz1836/gitassist/internal/process"
	"github.com/mrz1836/gitassist/internal/report"
	"github.com/mrz1836/gitassist/internal/tui"
)

// ToolChecker verifies that external tools are installed.
type ToolChecker interface {
	Require(ctx context.Context, names ...string) error
}

// Deps are the collaborators shared by every stage.
type Deps struct {
	Config   *config.Config
	WorkDir  string
	Invoker  *process.Invoker
	Git      git.Runner
	Tools    ToolChecker
	Decision decision.Decision
	Out      tui.Output
	Logger   zerolog.Logger

	// Clock stamps generated reports. Defaults to the system clock.
	Clock clock.Clock

	// LiveOutput receives build output as it is produced. Nil discards it.
	LiveOutput io.Writer
}

// All returns every stage in canonical order.
func All(d Deps) []pipeline.Stage {
	return []pipeline.Stage{
		NewBuild(d),
		NewQualityGate(d),
		NewVulnerabilityGate(d),
		NewCommit(d),
		NewPush(d),
	}
}

// Registry returns a pipeline registry holding every stage.
func Registry(d Deps) *pipeline.Registry {
	return pipeline.NewRegistry(All(d)...)
}

func (d Deps) logger(stage string) zerolog.Logger {
	return d.Logger.With().Str("component", "stage").Str("stage", stage).Logger()
}

func (d Deps) reportWriter() *report.Writer {
	c := d.Clock
	if c == nil {
		c = clock.RealClock{}
	}
	return report.NewWriter(c)
}

// path resolves a configured path against the working directory.
func (d Deps) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.WorkDir, p)
}
