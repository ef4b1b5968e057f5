// Package config provides configuration management for gitassist with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. Environment variables (GITASSIST_* prefix)
//  2. Project config (.gitassist/config.yaml)
//  3. Global config (~/.gitassist/config.yaml)
//  4. Legacy KEY=VALUE file (.gitassist/config.txt), for the keys it understands
//  5. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for gitassist.
type Config struct {
	// Build contains settings for the build stage.
	Build BuildConfig `yaml:"build" mapstructure:"build" json:"build"`

	// Quality contains settings for the static analysis scanner.
	Quality QualityConfig `yaml:"quality" mapstructure:"quality" json:"quality"`

	// Vulnerability contains settings for the dependency vulnerability scanner.
	Vulnerability VulnerabilityConfig `yaml:"vulnerability" mapstructure:"vulnerability" json:"vulnerability"`

	// Gates contains the threshold policy applied by both gates.
	Gates GatesConfig `yaml:"gates" mapstructure:"gates" json:"gates"`

	// Git contains settings for commit, push, and branch cleanup.
	Git GitConfig `yaml:"git" mapstructure:"git" json:"git"`

	// Reports contains the locations of generated report artifacts.
	Reports ReportsConfig `yaml:"reports" mapstructure:"reports" json:"reports"`
}

// BuildConfig configures the build stage.
type BuildConfig struct {
	// Command is the shell command line that builds the project.
	// Default: "mvn clean install"
	Command string `yaml:"command" mapstructure:"command" json:"command"`

	// Timeout bounds a single build.
	// Default: 60 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`
}

// QualityConfig configures the quality gate stage.
type QualityConfig struct {
	// Command runs the scanner. Its stdout is stored as the verbose log and
	// scanned for severity markers, so it should run in verbose mode.
	// Default: "sonar-scanner -Dsonar.verbose=true -Dproject.settings=sonar-project.properties"
	Command string `yaml:"command" mapstructure:"command" json:"command"`

	// Timeout bounds a single scan.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`

	// CoverageSource is the JaCoCo XML written by the build.
	// Default: "target/site/jacoco/jacoco.xml"
	CoverageSource string `yaml:"coverage_source" mapstructure:"coverage_source" json:"coverage_source"`

	// ProjectFile must exist before the scanner runs.
	// Default: "sonar-project.properties"
	ProjectFile string `yaml:"project_file" mapstructure:"project_file" json:"project_file"`

	// RequiredTools must all be on PATH before the scanner runs.
	// Default: ["sonar-scanner", "jq"]
	RequiredTools []string `yaml:"required_tools" mapstructure:"required_tools" json:"required_tools"`
}

// VulnerabilityConfig configures the vulnerability gate stage.
type VulnerabilityConfig struct {
	// Command runs the scanner and must print the JSON report on stdout.
	// A non-zero exit status is expected when vulnerabilities exist.
	// Default: "snyk test --json"
	Command string `yaml:"command" mapstructure:"command" json:"command"`

	// Timeout bounds a single scan.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`
}

// GatesConfig is the threshold policy for both gates.
type GatesConfig struct {
	// CoverageMinPercent is the minimum instruction coverage.
	// Default: 80
	CoverageMinPercent float64 `yaml:"coverage_min_percent" mapstructure:"coverage_min_percent" json:"coverage_min_percent"`

	// MaxCritical is the number of CRITICAL issues tolerated.
	// Default: 0
	MaxCritical int `yaml:"max_critical" mapstructure:"max_critical" json:"max_critical"`

	// MaxBlocker is the number of BLOCKER issues tolerated.
	// Default: 0
	MaxBlocker int `yaml:"max_blocker" mapstructure:"max_blocker" json:"max_blocker"`

	// MaxMajor is the number of MAJOR issues tolerated.
	// Default: 2
	MaxMajor int `yaml:"max_major" mapstructure:"max_major" json:"max_major"`

	// VulnerabilityAbort lists severities that stop the pipeline without asking.
	// Default: ["critical"]
	VulnerabilityAbort []string `yaml:"vulnerability_abort" mapstructure:"vulnerability_abort" json:"vulnerability_abort"`

	// VulnerabilityConfirm lists severities that require operator confirmation.
	// Default: ["high"]
	VulnerabilityConfirm []string `yaml:"vulnerability_confirm" mapstructure:"vulnerability_confirm" json:"vulnerability_confirm"`
}

// GitConfig contains settings for git operations.
type GitConfig struct {
	// Remote is the remote pushed to and cleaned.
	// Default: "origin"
	Remote string `yaml:"remote" mapstructure:"remote" json:"remote"`

	// BaseBranches are the base branch candidates in priority order.
	// Default: ["develop", "dev", "main", "master"]
	BaseBranches []string `yaml:"base_branches" mapstructure:"base_branches" json:"base_branches"`

	// ProtectedBranches require confirmation before a push.
	// Default: ["main", "master", "develop", "dev"]
	ProtectedBranches []string `yaml:"protected_branches" mapstructure:"protected_branches" json:"protected_branches"`

	// TicketPrefix is the prefix every commit ticket id must carry.
	// Default: JIRA_TICKET_PREFIX from config.txt, else "FINDATA-"
	TicketPrefix string `yaml:"ticket_prefix" mapstructure:"ticket_prefix" json:"ticket_prefix"`
}

// ReportsConfig contains the locations of generated artifacts.
type ReportsConfig struct {
	// QualityDir receives the copied coverage report, the Markdown summary,
	// and the verbose scanner log.
	// Default: ".gitassist/quality-reports"
	QualityDir string `yaml:"quality_dir" mapstructure:"quality_dir" json:"quality_dir"`

	// VulnerabilityDir receives the Markdown vulnerability table.
	// Default: ".gitassist/vulnerability-reports"
	VulnerabilityDir string `yaml:"vulnerability_dir" mapstructure:"vulnerability_dir" json:"vulnerability_dir"`
}
