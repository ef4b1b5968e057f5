package gate

import (
	"slices"
	"strings"

	"github.com/mrz1836/gitassist/internal/report"
)

// EvaluateCoverage judges coverage and scanner issue counts.
// A failing coverage verdict is a Warning: the operator may override it.
func EvaluateCoverage(q report.Quality, policy ThresholdPolicy) Verdict {
	var findings []Finding

	if q.CoveragePercent < policy.CoverageMinPercent {
		findings = append(findings, Finding{Category: CategoryCoverage, Measured: q.CoveragePercent, Threshold: policy.CoverageMinPercent})
	}
	checks := []struct {
		category string
		count    int
		max      int
	}{
		{CategoryCritical, q.Counts.Critical, policy.MaxCritical},
		{CategoryBlocker, q.Counts.Blocker, policy.MaxBlocker},
		{CategoryMajor, q.Counts.Major, policy.MaxMajor},
	}
	for _, c := range checks {
		if c.count > c.max {
			findings = append(findings, Finding{Category: c.category, Measured: float64(c.count), Threshold: float64(c.max)})
		}
	}

	if len(findings) == 0 {
		return Verdict{Passed: true, Severity: SeverityNone}
	}
	return Verdict{Passed: false, Severity: SeverityWarning, Findings: findings}
}

// EvaluateVulnerabilities judges a vulnerability list. Any severity in the
// abort set gives a Critical verdict; otherwise any severity in the confirm
// set gives a Warning. Severities compare case-insensitively.
func EvaluateVulnerabilities(vulns []report.Vulnerability, policy ThresholdPolicy) Verdict {
	counts := make(map[string]int)
	var order []string
	for _, v := range vulns {
		sev := strings.ToLower(strings.TrimSpace(v.Severity))
		if counts[sev] == 0 {
			order = append(order, sev)
		}
		counts[sev]++
	}

	collect := func(set []string) []Finding {
		var out []Finding
		for _, sev := range order {
			if slices.Contains(set, sev) {
				out = append(out, Finding{Category: VulnerabilityCategory(sev), Measured: float64(counts[sev])})
			}
		}
		return out
	}

	if abort := collect(policy.VulnerabilityAbortSet); len(abort) > 0 {
		return Verdict{Passed: false, Severity: SeverityCritical, Findings: append(abort, collect(policy.VulnerabilityConfirmSet)...)}
	}
	if confirm := collect(policy.VulnerabilityConfirmSet); len(confirm) > 0 {
		return Verdict{Passed: false, Severity: SeverityWarning, Findings: confirm}
	}
	return Verdict{Passed: true, Severity: SeverityNone}
}
