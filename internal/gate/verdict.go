package gate

import (
	"fmt"
	"strings"
)

// SeverityClass ranks a failing verdict.
type SeverityClass int

const (
	// SeverityNone is used by passing verdicts.
	SeverityNone SeverityClass = iota
	// SeverityWarning failures may be overridden by the operator.
	SeverityWarning
	// SeverityCritical failures abort without asking.
	SeverityCritical
)

// String returns the lower-case class name.
func (s SeverityClass) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	case SeverityNone:
		return "none"
	default:
		return "none"
	}
}

// MarshalText renders the class name in JSON and YAML output.
func (s SeverityClass) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Finding is one measured value that exceeded its threshold.
type Finding struct {
	Category  string  `json:"category"`
	Measured  float64 `json:"measured"`
	Threshold float64 `json:"threshold"`
}

// String renders the finding for prompts and logs.
func (f Finding) String() string {
	if f.Category == CategoryCoverage {
		return fmt.Sprintf("coverage %.2f%% below %.2f%%", f.Measured, f.Threshold)
	}
	return fmt.Sprintf("%s: %g (max %g)", f.Category, f.Measured, f.Threshold)
}

// Verdict is the outcome of evaluating one report.
type Verdict struct {
	Passed   bool          `json:"passed"`
	Severity SeverityClass `json:"severity"`
	Findings []Finding     `json:"findings,omitempty"`
}

// Summary joins the findings into one line.
func (v Verdict) Summary() string {
	if v.Passed {
		return "passed"
	}
	parts := make([]string, 0, len(v.Findings))
	for _, f := range v.Findings {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "; ")
}

// Finding categories.
const (
	CategoryCoverage    = "coverage"
	CategoryCritical    = "critical-issue"
	CategoryBlocker     = "blocker-issue"
	CategoryMajor       = "major-issue"
	vulnerabilitySuffix = "-vulnerability"
)

// VulnerabilityCategory returns the finding category for a severity.
func VulnerabilityCategory(severity string) string {
	return strings.ToLower(severity) + vulnerabilitySuffix
}
