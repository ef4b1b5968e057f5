// Package constants provides centralized constant values used throughout gitassist.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by gitassist for organizing data.
const (
	// Home is the hidden directory name where gitassist stores its data.
	// A global copy lives in the user's home directory and a project copy
	// lives in the repository root.
	Home = ".gitassist"

	// LogsDir is the directory name where run logs are stored.
	LogsDir = "logs"

	// QualityReportsDir is the directory that receives quality gate artifacts.
	QualityReportsDir = "quality-reports"

	// VulnerabilityReportsDir is the directory that receives vulnerability gate artifacts.
	VulnerabilityReportsDir = "vulnerability-reports"
)

// Stage names recognized by the pipeline.
const (
	// StageBuild compiles and packages the project.
	StageBuild = "build"

	// StageQualityGate runs the static analysis scanner and evaluates coverage.
	StageQualityGate = "quality-gate"

	// StageVulnerabilityGate runs the dependency vulnerability scanner.
	StageVulnerabilityGate = "vulnerability-gate"

	// StageCommit stages selected files and records a ticketed commit.
	StageCommit = "commit"

	// StagePush pushes the current branch to the remote.
	StagePush = "push"
)

// CompositeStages is the canonical order used by the run-all mode.
func CompositeStages() []string {
	return []string{StageBuild, StageQualityGate, StageVulnerabilityGate, StageCommit, StagePush}
}

// Timeout configurations for various operations.
const (
	// DefaultBuildTimeout bounds a single build tool invocation.
	DefaultBuildTimeout = 60 * time.Minute

	// DefaultScanTimeout bounds a single scanner invocation.
	DefaultScanTimeout = 30 * time.Minute
)

// Interactive prompt limits.
const (
	// MaxTicketAttempts is how many times the commit stage asks for a valid ticket id.
	MaxTicketAttempts = 3
)
