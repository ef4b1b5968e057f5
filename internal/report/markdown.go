package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/gitassist/internal/clock"
	"github.com/mrz1836/gitassist/internal/constants"
)

// TimestampLayout is the format of the "Generated on" line.
const TimestampLayout = "2006-01-02 15:04:05"

// Writer renders report artifacts. Every write replaces the previous file.
type Writer struct {
	clock clock.Clock
	upper cases.Caser
	lower cases.Caser
}

// NewWriter creates a Writer that stamps reports using c.
func NewWriter(c clock.Clock) *Writer {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Writer{
		clock: c,
		upper: cases.Upper(language.Und),
		lower: cases.Lower(language.Und),
	}
}

// QualitySummary renders the quality gate summary.
func (w *Writer) QualitySummary(q Quality) string {
	var sb strings.Builder
	sb.WriteString("# Quality Gate Summary\n\n")
	fmt.Fprintf(&sb, "**Generated on:** `%s`\n\n", w.clock.Now().Format(TimestampLayout))
	fmt.Fprintf(&sb, "**Code Coverage:** `%.2f%%`\n\n", q.CoveragePercent)
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	fmt.Fprintf(&sb, "| Critical | %d |\n", q.Counts.Critical)
	fmt.Fprintf(&sb, "| Blocker | %d |\n", q.Counts.Blocker)
	fmt.Fprintf(&sb, "| Major | %d |\n\n", q.Counts.Major)
	fmt.Fprintf(&sb, "**Verbose log:** [`%[1]s`](%[1]s)\n", constants.ScannerVerboseLogFileName)
	return sb.String()
}

// VulnerabilityReport renders the vulnerability table.
func (w *Writer) VulnerabilityReport(vulns []Vulnerability) string {
	var sb strings.Builder
	sb.WriteString("# Vulnerability Report\n\n")
	if len(vulns) == 0 {
		sb.WriteString("No vulnerabilities found.\n")
		return sb.String()
	}

	sb.WriteString("| Title | Severity | Package | Version | Fixed In | Maturity | More Info |\n")
	sb.WriteString("|-------|----------|---------|---------|----------|----------|-----------|\n")
	for _, v := range vulns {
		fixedIn := strings.Join(v.FixedIn, ", ")
		if fixedIn == "" {
			fixedIn = NotSpecified
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s | [Link](%s) |\n",
			escapeCell(v.Title),
			w.Capitalize(v.Severity),
			escapeCell(v.PackageName),
			escapeCell(v.Version),
			escapeCell(fixedIn),
			w.Capitalize(v.Maturity),
			v.URL,
		)
	}
	return sb.String()
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func (w *Writer) Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return w.upper.String(string(r)) + w.lower.String(s[size:])
}

// WriteQualityArtifacts writes the summary and the verbatim scanner output
// into dir and returns the summary path.
func (w *Writer) WriteQualityArtifacts(dir string, q Quality, scannerOutput string) (string, error) {
	if _, err := WriteScannerLog(dir, scannerOutput); err != nil {
		return "", err
	}
	return writeFile(dir, constants.QualitySummaryFileName, w.QualitySummary(q))
}

// WriteScannerLog stores the scanner's stdout verbatim in dir.
func WriteScannerLog(dir, output string) (string, error) {
	return writeFile(dir, constants.ScannerVerboseLogFileName, output)
}

// WriteVulnerabilityReport writes the vulnerability table into dir and
// returns its path.
func (w *Writer) WriteVulnerabilityReport(dir string, vulns []Vulnerability) (string, error) {
	return writeFile(dir, constants.VulnerabilityReportFileName, w.VulnerabilityReport(vulns))
}

func writeFile(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create report directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
