// Package report parses the artifacts produced by the external quality and
// vulnerability tools and writes the Markdown reports the gates leave behind.
package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/mrz1836/gitassist/internal/constants"
	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// CoverageCounter is the INSTRUCTION counter of a JaCoCo report.
type CoverageCounter struct {
	Missed  int `json:"missed"`
	Covered int `json:"covered"`
}

// Percent returns covered/(covered+missed) as a percentage rounded to two
// decimals. An empty counter reports 0.
func (c CoverageCounter) Percent() float64 {
	total := c.Missed + c.Covered
	if total == 0 {
		return 0
	}
	return math.Round(float64(c.Covered)/float64(total)*100*100) / 100
}

type jacocoCounter struct {
	Type    string `xml:"type,attr"`
	Missed  int    `xml:"missed,attr"`
	Covered int    `xml:"covered,attr"`
}

// ParseCoverageFile reads the JaCoCo XML report at path.
func ParseCoverageFile(path string) (CoverageCounter, error) {
	f, err := os.Open(path) //#nosec G304 -- path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CoverageCounter{}, fmt.Errorf("coverage report %s: %w", path, gaerrors.ErrReportMissing)
		}
		return CoverageCounter{}, fmt.Errorf("open coverage report %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	counter, err := ParseCoverage(f)
	if err != nil {
		return CoverageCounter{}, fmt.Errorf("coverage report %s: %w", path, err)
	}
	return counter, nil
}

// ParseCoverage extracts the INSTRUCTION counter from a JaCoCo XML report.
// The report-level counter (a direct child of <report>) is preferred; when
// it is absent the first INSTRUCTION counter in document order is used.
func ParseCoverage(r io.Reader) (CoverageCounter, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var (
		depth   int
		first   *CoverageCounter
		sawRoot bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return CoverageCounter{}, fmt.Errorf("%s: %w", err.Error(), gaerrors.ErrReportMalformed)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				sawRoot = true
			}
			if el.Name.Local != "counter" {
				continue
			}
			var c jacocoCounter
			if err := dec.DecodeElement(&c, &el); err != nil {
				return CoverageCounter{}, fmt.Errorf("%s: %w", err.Error(), gaerrors.ErrReportMalformed)
			}
			depth--
			if c.Type != "INSTRUCTION" {
				continue
			}
			counter := CoverageCounter{Missed: c.Missed, Covered: c.Covered}
			if depth == 1 {
				return counter, nil
			}
			if first == nil {
				first = &counter
			}
		case xml.EndElement:
			depth--
		}
	}

	if !sawRoot {
		return CoverageCounter{}, fmt.Errorf("empty document: %w", gaerrors.ErrReportMalformed)
	}
	if first == nil {
		return CoverageCounter{}, fmt.Errorf("no INSTRUCTION counter: %w", gaerrors.ErrReportMalformed)
	}
	return *first, nil
}

// CopyCoverageReport copies the JaCoCo report at src into dir. It reports
// false without error when src does not exist, after removing any copy a
// previous run left in dir.
func CopyCoverageReport(src, dir string) (bool, error) {
	dst := filepath.Join(dir, constants.CoverageReportFileName)

	in, err := os.Open(src) //#nosec G304 -- path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if rmErr := os.Remove(dst); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				return false, fmt.Errorf("remove stale %s: %w", dst, rmErr)
			}
			return false, nil
		}
		return false, fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("create report directory %s: %w", dir, err)
	}
	out, err := os.Create(dst) //#nosec G304 -- path built from configuration
	if err != nil {
		return false, fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return false, fmt.Errorf("copy coverage report: %w", err)
	}
	return true, out.Close()
}
