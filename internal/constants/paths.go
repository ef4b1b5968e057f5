package constants

// Log file names.
const (
	// RunLogFileName is the durable run log. It is rotated at the start of every run.
	RunLogFileName = "gitassist.log"

	// RunLockFileName is held for the length of a run so two runs never share a work directory.
	RunLockFileName = "run.lock"
)

// Run log rotation settings.
const (
	// LogMaxSizeMB caps the run log before lumberjack rotates it mid-run.
	LogMaxSizeMB = 10

	// LogMaxBackups is how many earlier run logs are kept.
	LogMaxBackups = 5

	// LogMaxAgeDays drops backups older than this.
	LogMaxAgeDays = 30

	// LogCompress gzips rotated run logs.
	LogCompress = true
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file in the gitassist home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigName is the name of the project configuration file inside the project .gitassist directory.
	ProjectConfigName = "config.yaml"

	// KeyValueConfigName is the legacy KEY=VALUE configuration file inside the project .gitassist directory.
	KeyValueConfigName = "config.txt"

	// ScannerProjectFile must exist in the project root before the quality scanner runs.
	ScannerProjectFile = "sonar-project.properties"

	// DefaultCoverageSource is where the build tool writes the JaCoCo coverage report.
	DefaultCoverageSource = "target/site/jacoco/jacoco.xml"
)

// Report artifact file names. Every gate run overwrites them.
const (
	// CoverageReportFileName is the coverage report copied into the quality reports directory.
	CoverageReportFileName = "jacoco.xml"

	// QualitySummaryFileName is the Markdown summary written by the quality gate.
	QualitySummaryFileName = "quality_summary.md"

	// ScannerVerboseLogFileName holds the verbatim scanner output.
	ScannerVerboseLogFileName = "scanner_verbose.log"

	// VulnerabilityReportFileName is the Markdown table written by the vulnerability gate.
	VulnerabilityReportFileName = "vulnerability_report.md"
)

// Configuration keys understood by the KEY=VALUE file.
const (
	// TicketPrefixKey selects the prefix every commit ticket id must start with.
	TicketPrefixKey = "JIRA_TICKET_PREFIX"

	// DefaultTicketPrefix applies when the key is absent.
	DefaultTicketPrefix = "FINDATA-"
)
