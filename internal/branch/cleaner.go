package branch

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitassist/internal/ctxutil"
	"github.com/mrz1836/gitassist/internal/git"
	"github.com/mrz1836/gitassist/internal/tui"
)

// Asker asks the operator a yes/no question.
type Asker interface {
	Ask(question string) bool
}

// Deletion is the outcome of deleting one remote branch.
type Deletion struct {
	Branch  string `json:"branch"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// CleanupReport describes one cleanup run.
type CleanupReport struct {
	Base      string     `json:"base"`
	MergeSet  []string   `json:"merge_set"`
	Confirmed bool       `json:"confirmed"`
	Deletions []Deletion `json:"deletions,omitempty"`
}

// Failed returns the number of deletions that did not succeed.
func (r *CleanupReport) Failed() int {
	n := 0
	for _, d := range r.Deletions {
		if !d.Deleted {
			n++
		}
	}
	return n
}

// Cleaner deletes merged remote branches.
type Cleaner struct {
	git        git.Runner
	asker      Asker
	out        tui.Output
	logger     zerolog.Logger
	remote     string
	candidates []string
}

// CleanerOption configures a Cleaner.
type CleanerOption func(*Cleaner)

// WithRemote sets the remote to clean. Default "origin".
func WithRemote(remote string) CleanerOption {
	return func(c *Cleaner) {
		if remote != "" {
			c.remote = remote
		}
	}
}

// WithBaseCandidates sets the base branch priority order.
func WithBaseCandidates(candidates []string) CleanerOption {
	return func(c *Cleaner) {
		if len(candidates) > 0 {
			c.candidates = candidates
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) CleanerOption {
	return func(c *Cleaner) {
		c.logger = logger
	}
}

// NewCleaner creates a Cleaner.
func NewCleaner(runner git.Runner, asker Asker, out tui.Output, opts ...CleanerOption) *Cleaner {
	c := &Cleaner{
		git:        runner,
		asker:      asker,
		out:        out,
		logger:     zerolog.Nop(),
		remote:     "origin",
		candidates: DefaultBaseCandidates(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean fetches, updates the base branch, lists branches merged into it,
// and after one confirmation deletes each of them on the remote. A failed
// deletion is recorded and does not stop the others.
func (c *Cleaner) Clean(ctx context.Context) (*CleanupReport, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	log := c.logger.With().Str("component", "branch-cleaner").Str("remote", c.remote).Logger()

	c.out.Info("Cleaning up remote merged branches")
	if err := c.git.FetchPrune(ctx); err != nil {
		return nil, err
	}

	base, err := c.resolveBase(ctx)
	if err != nil {
		return nil, err
	}
	report := &CleanupReport{Base: base}
	log.Info().Str("base", base).Msg("base branch resolved")

	c.out.Info(fmt.Sprintf("Pulling latest for base branch: %s", base))
	if err := c.git.Checkout(ctx, base); err != nil {
		return nil, err
	}
	if err := c.git.Pull(ctx, c.remote, base); err != nil {
		return nil, err
	}

	merged, err := c.git.MergedRemoteBranches(ctx, c.remote, base)
	if err != nil {
		return nil, err
	}
	report.MergeSet = FilterMerged(merged, c.candidates, c.remote)

	if len(report.MergeSet) == 0 {
		c.out.Success("No remote merged branches to delete")
		return report, nil
	}

	lines := make([]string, 0, len(report.MergeSet))
	for i, name := range report.MergeSet {
		lines = append(lines, fmt.Sprintf(" %d. %s", i+1, name))
	}
	c.out.Info("Merged branches ready for deletion:\n" + strings.Join(lines, "\n"))

	if c.asker == nil || !c.asker.Ask("Do you want to delete these merged branches from remote? (y/n)") {
		c.out.Warning("Deletion aborted by user")
		log.Info().Int("merged", len(report.MergeSet)).Msg("branch deletion declined")
		return report, nil
	}
	report.Confirmed = true

	for _, name := range report.MergeSet {
		d := Deletion{Branch: name}
		if err := c.git.DeleteRemoteBranch(ctx, c.remote, name); err != nil {
			d.Error = err.Error()
			c.out.Warning("Failed to delete: " + name)
			log.Warn().Err(err).Str("branch", name).Msg("remote branch deletion failed")
		} else {
			d.Deleted = true
			c.out.Success("Deleted: " + name)
			log.Info().Str("branch", name).Msg("remote branch deleted")
		}
		report.Deletions = append(report.Deletions, d)
	}
	return report, nil
}

// resolveBase checks candidates in priority order and stops at the first
// one present on the remote.
func (c *Cleaner) resolveBase(ctx context.Context) (string, error) {
	var present []string
	for _, candidate := range c.candidates {
		ok, err := c.git.RemoteBranchExists(ctx, c.remote, candidate)
		if err != nil {
			return "", err
		}
		if ok {
			present = append(present, candidate)
			break
		}
	}
	return ResolveBase(present, c.candidates)
}
