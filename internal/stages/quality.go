package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/ctxutil"
	gaerrors "github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/gate"
	"github.com/mrz1836/gitassist/internal/pipeline"
	"github.com/mrz1836/gitassist/internal/process"
	"github.com/mrz1836/gitassist/internal/report"
)

// QualityGate runs the static analysis scanner, writes the quality
// artifacts, and judges coverage and issue counts.
type QualityGate struct {
	deps Deps
}

var _ pipeline.Stage = (*QualityGate)(nil)

// NewQualityGate creates the quality gate stage.
func NewQualityGate(d Deps) *QualityGate {
	return &QualityGate{deps: d}
}

// Name returns "quality-gate".
func (s *QualityGate) Name() string { return constants.StageQualityGate }

// Run checks prerequisites, scans, writes the report artifacts, and routes
// the verdict through the confirmation gate.
func (s *QualityGate) Run(ctx context.Context) (*pipeline.StageResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	cfg := s.deps.Config.Quality
	log := s.deps.logger(s.Name())

	if err := s.checkPrerequisites(ctx); err != nil {
		return nil, err
	}

	s.deps.Out.Info("Running quality scan")
	scan, err := s.deps.Invoker.Run(ctx, cfg.Command, process.Options{
		WorkDir:           s.deps.WorkDir,
		Timeout:           cfg.Timeout,
		FailOnNonZeroExit: true,
	})
	if err != nil {
		if scan != nil {
			_, _ = report.WriteScannerLog(s.reportDir(), scan.Stdout)
		}
		return nil, fmt.Errorf("quality scan: %w", err)
	}

	quality, artifacts, err := s.collect(scan.Stdout, log)
	if err != nil {
		return nil, err
	}

	verdict := gate.EvaluateCoverage(quality, gate.PolicyFromConfig(s.deps.Config.Gates))
	log.Info().
		Float64("coverage", quality.CoveragePercent).
		Int("critical", quality.Counts.Critical).
		Int("blocker", quality.Counts.Blocker).
		Int("major", quality.Counts.Major).
		Bool("passed", verdict.Passed).
		Msg("quality gate evaluated")

	result := resolveGate(s.deps, verdict, "quality gate", qualityQuestion(verdict))
	result.Artifacts = artifacts
	return result, nil
}

func (s *QualityGate) checkPrerequisites(ctx context.Context) error {
	projectFile := s.deps.path(s.deps.Config.Quality.ProjectFile)
	if projectFile != "" {
		if _, err := os.Stat(projectFile); err != nil {
			return fmt.Errorf("%s not found: %w", filepath.Base(projectFile), gaerrors.ErrReportMissing)
		}
	}
	if s.deps.Tools != nil && len(s.deps.Config.Quality.RequiredTools) > 0 {
		if err := s.deps.Tools.Require(ctx, s.deps.Config.Quality.RequiredTools...); err != nil {
			return err
		}
	}
	return nil
}

// collect stores the scanner log, copies and parses the coverage report, and
// writes the Markdown summary. A coverage report missing at its source is
// ErrReportMissing even when an older copy sits in the report directory.
func (s *QualityGate) collect(scannerOutput string, log zerolog.Logger) (report.Quality, []string, error) {
	dir := s.reportDir()

	copied, err := report.CopyCoverageReport(s.deps.path(s.deps.Config.Quality.CoverageSource), dir)
	if err != nil {
		return report.Quality{}, nil, err
	}
	if !copied {
		log.Warn().Str("source", s.deps.Config.Quality.CoverageSource).Msg("coverage report not found at source")
	}

	coverage, err := report.ParseCoverageFile(filepath.Join(dir, constants.CoverageReportFileName))
	if err != nil {
		_, _ = report.WriteScannerLog(dir, scannerOutput)
		return report.Quality{}, nil, err
	}

	quality := report.Quality{
		CoveragePercent: coverage.Percent(),
		Counts:          report.CountSeverities(scannerOutput),
	}
	summary, err := s.deps.reportWriter().WriteQualityArtifacts(dir, quality, scannerOutput)
	if err != nil {
		return report.Quality{}, nil, err
	}
	s.deps.Out.Info("Quality summary written to " + summary)

	return quality, []string{summary, filepath.Join(dir, constants.ScannerVerboseLogFileName)}, nil
}

func (s *QualityGate) reportDir() string {
	return s.deps.path(s.deps.Config.Reports.QualityDir)
}

func qualityQuestion(v gate.Verdict) string {
	return fmt.Sprintf("Quality gate failed (%s). Continue despite the failure? (y/n)", v.Summary())
}
