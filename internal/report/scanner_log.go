package report

import "strings"

// SeverityCounts holds the issue counts found in the scanner's verbose log.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Blocker  int `json:"blocker"`
	Major    int `json:"major"`
}

// CountSeverities counts lines carrying a severity marker. A line is counted
// once, for the first marker found in the order CRITICAL, BLOCKER, MAJOR.
func CountSeverities(log string) SeverityCounts {
	var counts SeverityCounts
	for _, line := range strings.Split(log, "\n") {
		switch {
		case strings.Contains(line, "severity=CRITICAL"):
			counts.Critical++
		case strings.Contains(line, "severity=BLOCKER"):
			counts.Blocker++
		case strings.Contains(line, "severity=MAJOR"):
			counts.Major++
		}
	}
	return counts
}

// Quality is everything the coverage gate evaluates.
type Quality struct {
	CoveragePercent float64        `json:"coverage_percent"`
	Counts          SeverityCounts `json:"counts"`
}
