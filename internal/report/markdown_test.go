package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitassist/internal/clock"
)

func fixedWriter() *Writer {
	return NewWriter(clock.Fixed{At: time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)})
}

func TestWriter_QualitySummary(t *testing.T) {
	got := fixedWriter().QualitySummary(Quality{
		CoveragePercent: 81,
		Counts:          SeverityCounts{Critical: 0, Blocker: 0, Major: 1},
	})

	want := "# Quality Gate Summary\n\n" +
		"**Generated on:** `2024-03-09 14:05:06`\n\n" +
		"**Code Coverage:** `81.00%`\n\n" +
		"| Severity | Count |\n" +
		"|----------|-------|\n" +
		"| Critical | 0 |\n" +
		"| Blocker | 0 |\n" +
		"| Major | 1 |\n\n" +
		"**Verbose log:** [`scanner_verbose.log`](scanner_verbose.log)\n"
	assert.Equal(t, want, got)
}

func TestWriter_VulnerabilityReport(t *testing.T) {
	w := fixedWriter()

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "# Vulnerability Report\n\nNo vulnerabilities found.\n", w.VulnerabilityReport(nil))
	})

	t.Run("rows", func(t *testing.T) {
		got := w.VulnerabilityReport([]Vulnerability{
			{Title: "RCE | chained", Severity: "CRITICAL", PackageName: "log4j-core", Version: "2.14.1",
				FixedIn: []string{"2.15.0", "2.16.0"}, Maturity: "mature", URL: "https://example.com/1"},
			{Title: UnknownTitle, Severity: "high", PackageName: NotAvailable, Version: NotAvailable,
				Maturity: NotAvailable, URL: NotAvailable},
		})
		assert.Contains(t, got, "| Title | Severity | Package | Version | Fixed In | Maturity | More Info |\n")
		assert.Contains(t, got, `| RCE \| chained | Critical | log4j-core | 2.14.1 | 2.15.0, 2.16.0 | Mature | [Link](https://example.com/1) |`)
		assert.Contains(t, got, "| Unknown | High | N/A | N/A | Not specified | N/a | [Link](N/A) |")
	})
}

func TestWriter_Capitalize(t *testing.T) {
	w := fixedWriter()
	assert.Equal(t, "High", w.Capitalize("HIGH"))
	assert.Equal(t, "Proof of concept", w.Capitalize("Proof of Concept"))
	assert.Empty(t, w.Capitalize(""))
}

func TestWriter_WriteArtifactsOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "quality")
	w := fixedWriter()
	q := Quality{CoveragePercent: 75}

	first, err := w.WriteQualityArtifacts(dir, q, "scanner run 1\n")
	require.NoError(t, err)
	firstBytes, err := os.ReadFile(first)
	require.NoError(t, err)

	second, err := w.WriteQualityArtifacts(dir, q, "scanner run 2\n")
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstBytes, secondBytes, "same input and clock give identical summaries")

	log, err := os.ReadFile(filepath.Join(dir, "scanner_verbose.log"))
	require.NoError(t, err)
	assert.Equal(t, "scanner run 2\n", string(log))

	path, err := w.WriteVulnerabilityReport(filepath.Join(t.TempDir(), "vuln"), nil)
	require.NoError(t, err)
	assert.Equal(t, "vulnerability_report.md", filepath.Base(path))
}
