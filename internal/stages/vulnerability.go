package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/ctxutil"
	"github.com/mrz1836/gitassist/internal/gate"
	"github.com/mrz1836/gitassist/internal/pipeline"
	"github.com/mrz1836/gitassist/internal/process"
	"github.com/mrz1836/gitassist/internal/report"
)

// VulnerabilityGate runs the dependency scanner and judges its findings.
type VulnerabilityGate struct {
	deps Deps
}

var _ pipeline.Stage = (*VulnerabilityGate)(nil)

// NewVulnerabilityGate creates the vulnerability gate stage.
func NewVulnerabilityGate(d Deps) *VulnerabilityGate {
	return &VulnerabilityGate{deps: d}
}

// Name returns "vulnerability-gate".
func (s *VulnerabilityGate) Name() string { return constants.StageVulnerabilityGate }

// Run scans, writes the vulnerability report, and routes the verdict
// through the confirmation gate. The scanner's non-zero exit status only
// signals findings, so it is not treated as a failure.
func (s *VulnerabilityGate) Run(ctx context.Context) (*pipeline.StageResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	cfg := s.deps.Config.Vulnerability
	log := s.deps.logger(s.Name())
	s.deps.Out.Info("Running vulnerability scan")

	scan, err := s.deps.Invoker.Run(ctx, cfg.Command, process.Options{
		WorkDir: s.deps.WorkDir,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("vulnerability scan: %w", err)
	}

	vulns, err := report.ParseVulnerabilities([]byte(scan.Stdout))
	if err != nil {
		return nil, fmt.Errorf("vulnerability scan output: %w", err)
	}

	path, err := s.deps.reportWriter().WriteVulnerabilityReport(s.deps.path(s.deps.Config.Reports.VulnerabilityDir), vulns)
	if err != nil {
		return nil, err
	}
	s.deps.Out.Info("Vulnerability report written to " + path)

	verdict := gate.EvaluateVulnerabilities(vulns, gate.PolicyFromConfig(s.deps.Config.Gates))
	log.Info().Int("vulnerabilities", len(vulns)).Bool("passed", verdict.Passed).
		Str("severity", verdict.Severity.String()).Msg("vulnerability gate evaluated")

	result := resolveGate(s.deps, verdict, "vulnerability gate", vulnerabilityQuestion(verdict))
	result.Artifacts = []string{path}
	return result, nil
}

func vulnerabilityQuestion(v gate.Verdict) string {
	severities := make([]string, 0, len(v.Findings))
	for _, f := range v.Findings {
		severities = append(severities, strings.TrimSuffix(f.Category, "-vulnerability"))
	}
	return fmt.Sprintf("Continue despite %s vulnerabilities? (y/n)", strings.Join(severities, "/"))
}
