package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

const jacocoSample = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<!DOCTYPE report PUBLIC "-//JACOCO//DTD Report 1.1//EN" "report.dtd">
<report name="demo">
  <sessioninfo id="host-1" start="1" dump="2"/>
  <package name="com/example">
    <class name="com/example/App">
      <method name="main" desc="()V" line="3">
        <counter type="INSTRUCTION" missed="1" covered="9"/>
      </method>
      <counter type="INSTRUCTION" missed="5" covered="15"/>
    </class>
    <counter type="INSTRUCTION" missed="5" covered="15"/>
  </package>
  <counter type="LINE" missed="2" covered="8"/>
  <counter type="INSTRUCTION" missed="20" covered="80"/>
</report>`

func TestCoverageCounter_Percent(t *testing.T) {
	tests := []struct {
		name    string
		counter CoverageCounter
		want    float64
	}{
		{"eighty percent", CoverageCounter{Missed: 20, Covered: 80}, 80.00},
		{"rounded to two decimals", CoverageCounter{Missed: 1, Covered: 2}, 66.67},
		{"zero total", CoverageCounter{}, 0},
		{"fully covered", CoverageCounter{Covered: 42}, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.counter.Percent(), 0.0001)
		})
	}
}

func TestParseCoverage(t *testing.T) {
	t.Run("prefers report level counter", func(t *testing.T) {
		c, err := ParseCoverage(strings.NewReader(jacocoSample))
		require.NoError(t, err)
		assert.Equal(t, CoverageCounter{Missed: 20, Covered: 80}, c)
		assert.InDelta(t, 80.0, c.Percent(), 0.0001)
	})

	t.Run("falls back to first instruction counter", func(t *testing.T) {
		doc := `<report><package><counter type="BRANCH" missed="1" covered="1"/>` +
			`<counter type="INSTRUCTION" missed="3" covered="7"/></package></report>`
		c, err := ParseCoverage(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, CoverageCounter{Missed: 3, Covered: 7}, c)
	})

	t.Run("zero counter", func(t *testing.T) {
		c, err := ParseCoverage(strings.NewReader(`<report><counter type="INSTRUCTION" missed="0" covered="0"/></report>`))
		require.NoError(t, err)
		assert.Zero(t, c.Percent())
	})

	t.Run("no instruction counter", func(t *testing.T) {
		_, err := ParseCoverage(strings.NewReader(`<report><counter type="LINE" missed="1" covered="1"/></report>`))
		require.ErrorIs(t, err, gaerrors.ErrReportMalformed)
	})

	t.Run("not xml", func(t *testing.T) {
		_, err := ParseCoverage(strings.NewReader(""))
		require.ErrorIs(t, err, gaerrors.ErrReportMalformed)
	})

	t.Run("bad attribute", func(t *testing.T) {
		_, err := ParseCoverage(strings.NewReader(`<report><counter type="INSTRUCTION" missed="x" covered="1"/></report>`))
		require.ErrorIs(t, err, gaerrors.ErrReportMalformed)
	})
}

func TestParseCoverageFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ParseCoverageFile(filepath.Join(dir, "jacoco.xml"))
	require.ErrorIs(t, err, gaerrors.ErrReportMissing)

	path := filepath.Join(dir, "jacoco.xml")
	require.NoError(t, os.WriteFile(path, []byte(jacocoSample), 0o600))
	c, err := ParseCoverageFile(path)
	require.NoError(t, err)
	assert.Equal(t, 80, c.Covered)
}

func TestCopyCoverageReport(t *testing.T) {
	src := filepath.Join(t.TempDir(), "jacoco.xml")
	dest := filepath.Join(t.TempDir(), "reports")

	copied, err := CopyCoverageReport(src, dest)
	require.NoError(t, err)
	assert.False(t, copied, "missing source is not an error")

	require.NoError(t, os.WriteFile(src, []byte(jacocoSample), 0o600))
	copied, err = CopyCoverageReport(src, dest)
	require.NoError(t, err)
	assert.True(t, copied)

	data, err := os.ReadFile(filepath.Join(dest, "jacoco.xml"))
	require.NoError(t, err)
	assert.Equal(t, jacocoSample, string(data))
}

func TestCopyCoverageReport_RemovesStaleCopy(t *testing.T) {
	src := filepath.Join(t.TempDir(), "jacoco.xml")
	dest := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, os.WriteFile(src, []byte(jacocoSample), 0o600))

	copied, err := CopyCoverageReport(src, dest)
	require.NoError(t, err)
	require.True(t, copied)

	require.NoError(t, os.Remove(src))
	copied, err = CopyCoverageReport(src, dest)
	require.NoError(t, err)
	assert.False(t, copied)
	assert.NoFileExists(t, filepath.Join(dest, "jacoco.xml"))
}
