// Package gate evaluates tool reports against a threshold policy and routes
// the resulting verdict through operator confirmation.
//
// Evaluation is pure: the same report and policy always give the same
// verdict. Only Resolve talks to the operator.
package gate

import (
	"strings"

	"github.com/mrz1836/gitassist/internal/config"
)

// ThresholdPolicy is the immutable set of limits a run is judged against.
type ThresholdPolicy struct {
	CoverageMinPercent      float64
	MaxCritical             int
	MaxBlocker              int
	MaxMajor                int
	VulnerabilityAbortSet   []string
	VulnerabilityConfirmSet []string
}

// DefaultPolicy returns the built-in thresholds.
func DefaultPolicy() ThresholdPolicy {
	return PolicyFromConfig(config.DefaultConfig().Gates)
}

// PolicyFromConfig copies the gate section of the configuration.
// Severity names are lower-cased.
func PolicyFromConfig(g config.GatesConfig) ThresholdPolicy {
	return ThresholdPolicy{
		CoverageMinPercent:      g.CoverageMinPercent,
		MaxCritical:             g.MaxCritical,
		MaxBlocker:              g.MaxBlocker,
		MaxMajor:                g.MaxMajor,
		VulnerabilityAbortSet:   normalizeSeverities(g.VulnerabilityAbort),
		VulnerabilityConfirmSet: normalizeSeverities(g.VulnerabilityConfirm),
	}
}

func normalizeSeverities(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
