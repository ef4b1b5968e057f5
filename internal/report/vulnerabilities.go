package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// Placeholders used when the scanner omits a field.
const (
	UnknownTitle    = "Unknown"
	UnknownSeverity = "unknown"
	NotAvailable    = "N/A"
	NotSpecified    = "Not specified"
)

// Vulnerability is one entry of the scanner's JSON report with every
// optional field resolved to a concrete value.
type Vulnerability struct {
	Title       string   `json:"title"`
	Severity    string   `json:"severity"`
	PackageName string   `json:"package_name"`
	Version     string   `json:"version"`
	FixedIn     []string `json:"fixed_in"`
	Maturity    string   `json:"maturity"`
	URL         string   `json:"url"`
}

type snykVulnerability struct {
	Title       *string  `json:"title"`
	Severity    *string  `json:"severity"`
	PackageName *string  `json:"packageName"`
	Version     *string  `json:"version"`
	FixedIn     []string `json:"fixedIn"`
	Maturity    *string  `json:"maturity"`
	URL         *string  `json:"url"`
}

type snykProject struct {
	Vulnerabilities *[]snykVulnerability `json:"vulnerabilities"`
	Error           string               `json:"error"`
}

// ParseVulnerabilities decodes the scanner's JSON output. Multi-project
// output (a top-level array) is flattened in order. A project carrying an
// error, or no vulnerabilities array at all, is ErrReportMalformed: the
// scan did not happen, so there is nothing to pass.
func ParseVulnerabilities(data []byte) ([]Vulnerability, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty scanner output: %w", gaerrors.ErrReportMalformed)
	}

	var projects []snykProject
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &projects); err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), gaerrors.ErrReportMalformed)
		}
	} else {
		var single snykProject
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), gaerrors.ErrReportMalformed)
		}
		projects = []snykProject{single}
	}

	out := make([]Vulnerability, 0)
	for i, p := range projects {
		if p.Error != "" {
			return nil, fmt.Errorf("scanner reported %q: %w", p.Error, gaerrors.ErrReportMalformed)
		}
		if p.Vulnerabilities == nil {
			return nil, fmt.Errorf("project %d has no vulnerabilities array: %w", i, gaerrors.ErrReportMalformed)
		}
		for _, v := range *p.Vulnerabilities {
			out = append(out, Vulnerability{
				Title:       valueOr(v.Title, UnknownTitle),
				Severity:    valueOr(v.Severity, UnknownSeverity),
				PackageName: valueOr(v.PackageName, NotAvailable),
				Version:     valueOr(v.Version, NotAvailable),
				FixedIn:     v.FixedIn,
				Maturity:    valueOr(v.Maturity, NotAvailable),
				URL:         valueOr(v.URL, NotAvailable),
			})
		}
	}
	return out, nil
}

func valueOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
