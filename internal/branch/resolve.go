// Package branch finds remote branches that are fully merged into the
// integration base and deletes them on request.
package branch

import (
	"fmt"
	"slices"
	"strings"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// DefaultBaseCandidates is the base branch priority order.
func DefaultBaseCandidates() []string {
	return []string{"develop", "dev", "main", "master"}
}

// Descriptor is a remote branch name with the remote prefix removed.
type Descriptor struct {
	Name string `json:"name"`
	// IsBaseCandidate is true when the name ends with any base candidate.
	// The suffix match also catches names such as "release/main".
	IsBaseCandidate bool `json:"is_base_candidate"`
}

// Describe strips "<remote>/" from each name and classifies it. Blank
// entries and names belonging to another remote are dropped.
func Describe(names, candidates []string, remote string) []Descriptor {
	prefix := remote + "/"
	out := make([]Descriptor, 0, len(names))
	for _, raw := range names {
		name, ok := strings.CutPrefix(strings.TrimSpace(raw), prefix)
		if !ok || name == "" {
			continue
		}
		out = append(out, Descriptor{Name: name, IsBaseCandidate: endsWithAny(name, candidates)})
	}
	return out
}

func endsWithAny(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// ResolveBase returns the first candidate, in priority order, that appears
// in remoteBranches. remoteBranches hold names without the remote prefix.
func ResolveBase(remoteBranches, candidates []string) (string, error) {
	for _, c := range candidates {
		if slices.Contains(remoteBranches, c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("looked for %s: %w", strings.Join(candidates, ", "), gaerrors.ErrNoBaseBranchFound)
}

// FilterMerged turns the raw merged listing into the merge set: remote
// prefix removed, blanks dropped, and base candidate aliases excluded.
// Order is preserved.
func FilterMerged(merged, candidates []string, remote string) []string {
	out := make([]string, 0, len(merged))
	for _, d := range Describe(merged, candidates, remote) {
		if !d.IsBaseCandidate {
			out = append(out, d.Name)
		}
	}
	return out
}
