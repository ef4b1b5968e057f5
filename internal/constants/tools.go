package constants

import "time"

// Tool detection timeout configuration.
const (
	// ToolDetectionTimeout is the maximum duration for detecting all tools.
	// Detection runs in parallel but must complete within this timeout.
	ToolDetectionTimeout = 5 * time.Second
)

// Tool names used by the tool detection system.
const (
	// ToolGit is the Git version control system.
	ToolGit = "git"

	// ToolMaven is the Maven build tool.
	ToolMaven = "mvn"

	// ToolSonarScanner is the SonarQube scanner CLI.
	ToolSonarScanner = "sonar-scanner"

	// ToolJQ is the jq JSON processor required by the scanner wrapper.
	ToolJQ = "jq"

	// ToolSnyk is the Snyk vulnerability scanner CLI.
	ToolSnyk = "snyk"
)

// Minimum version requirements for required tools.
const (
	// MinVersionGit is the minimum required Git version.
	MinVersionGit = "2.20.0"

	// MinVersionMaven is the minimum required Maven version.
	MinVersionMaven = "3.6.0"

	// MinVersionJQ is the minimum required jq version.
	MinVersionJQ = "1.6"
)

// Tool version command arguments.
const (
	// VersionFlagStandard is the standard version flag used by most tools.
	VersionFlagStandard = "--version"

	// VersionFlagMaven is the version flag understood by Maven.
	VersionFlagMaven = "-v"
)
