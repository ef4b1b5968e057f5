package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mrz1836/gitassist/internal/constants"
)

// DefaultConfig returns a new Config with the built-in default values.
// The defaults target a Maven project scanned by SonarQube and Snyk.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			Command: "mvn clean install",
			Timeout: constants.DefaultBuildTimeout,
		},
		Quality: QualityConfig{
			Command:        "sonar-scanner -Dsonar.verbose=true -Dproject.settings=sonar-project.properties",
			Timeout:        constants.DefaultScanTimeout,
			CoverageSource: constants.DefaultCoverageSource,
			ProjectFile:    constants.ScannerProjectFile,
			RequiredTools:  []string{constants.ToolSonarScanner, constants.ToolJQ},
		},
		Vulnerability: VulnerabilityConfig{
			Command: "snyk test --json",
			Timeout: constants.DefaultScanTimeout,
		},
		Gates: GatesConfig{
			CoverageMinPercent:   80,
			MaxCritical:          0,
			MaxBlocker:           0,
			MaxMajor:             2,
			VulnerabilityAbort:   []string{"critical"},
			VulnerabilityConfirm: []string{"high"},
		},
		Git: GitConfig{
			Remote:            "origin",
			BaseBranches:      []string{"develop", "dev", "main", "master"},
			ProtectedBranches: []string{"main", "master", "develop", "dev"},
			TicketPrefix:      constants.DefaultTicketPrefix,
		},
		Reports: ReportsConfig{
			QualityDir:       filepath.Join(constants.Home, constants.QualityReportsDir),
			VulnerabilityDir: filepath.Join(constants.Home, constants.VulnerabilityReportsDir),
		},
	}
}

// setDefaults registers every DefaultConfig value on the Viper instance.
// Keys must match the mapstructure tags.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("build.command", d.Build.Command)
	v.SetDefault("build.timeout", d.Build.Timeout.String())

	v.SetDefault("quality.command", d.Quality.Command)
	v.SetDefault("quality.timeout", d.Quality.Timeout.String())
	v.SetDefault("quality.coverage_source", d.Quality.CoverageSource)
	v.SetDefault("quality.project_file", d.Quality.ProjectFile)
	v.SetDefault("quality.required_tools", d.Quality.RequiredTools)

	v.SetDefault("vulnerability.command", d.Vulnerability.Command)
	v.SetDefault("vulnerability.timeout", d.Vulnerability.Timeout.String())

	v.SetDefault("gates.coverage_min_percent", d.Gates.CoverageMinPercent)
	v.SetDefault("gates.max_critical", d.Gates.MaxCritical)
	v.SetDefault("gates.max_blocker", d.Gates.MaxBlocker)
	v.SetDefault("gates.max_major", d.Gates.MaxMajor)
	v.SetDefault("gates.vulnerability_abort", d.Gates.VulnerabilityAbort)
	v.SetDefault("gates.vulnerability_confirm", d.Gates.VulnerabilityConfirm)

	v.SetDefault("git.remote", d.Git.Remote)
	v.SetDefault("git.base_branches", d.Git.BaseBranches)
	v.SetDefault("git.protected_branches", d.Git.ProtectedBranches)
	v.SetDefault("git.ticket_prefix", d.Git.TicketPrefix)

	v.SetDefault("reports.quality_dir", d.Reports.QualityDir)
	v.SetDefault("reports.vulnerability_dir", d.Reports.VulnerabilityDir)
}
