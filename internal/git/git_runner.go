package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mrz1836/gitassist/internal/ctxutil"
	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// CLIRunner implements Runner by shelling out to the git binary.
type CLIRunner struct {
	workDir string
}

var _ Runner = (*CLIRunner)(nil)

// NewRunner creates a CLIRunner for workDir after verifying it is inside a
// git repository.
func NewRunner(ctx context.Context, workDir string) (*CLIRunner, error) {
	if workDir == "" {
		return nil, fmt.Errorf("work directory cannot be empty: %w", gaerrors.ErrEmptyValue)
	}

	r := &CLIRunner{workDir: workDir}
	if _, err := r.run(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: %w", gaerrors.ErrNotGitRepo, err)
	}
	return r, nil
}

// Status returns the working tree status.
func (r *CLIRunner) Status(ctx context.Context) (*Status, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	output, err := r.run(ctx, "status", "--porcelain", "-uall", "--branch")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return parseGitStatus(output), nil
}

// Add stages files for commit.
func (r *CLIRunner) Add(ctx context.Context, paths []string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	args := []string{"add"}
	if len(paths) == 0 {
		args = append(args, "-A")
	} else {
		args = append(args, "--")
		args = append(args, paths...)
	}

	if _, err := r.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}
	return nil
}

// Commit creates a commit with the given message.
func (r *CLIRunner) Commit(ctx context.Context, message string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if message == "" {
		return fmt.Errorf("commit message cannot be empty: %w", gaerrors.ErrEmptyValue)
	}

	if _, err := r.run(ctx, "commit", "-m", message, "--cleanup=strip"); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Push pushes branch to remote.
func (r *CLIRunner) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)

	if _, err := r.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}

// CurrentBranch returns the name of the checked out branch.
func (r *CLIRunner) CurrentBranch(ctx context.Context) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	output, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if output == "HEAD" {
		return "", fmt.Errorf("repository is in detached HEAD state: %w", gaerrors.ErrDetachedHead)
	}
	return output, nil
}

// IsIgnored reports whether path matches an ignore rule.
func (r *CLIRunner) IsIgnored(ctx context.Context, path string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	_, code, err := runCommandStatus(ctx, r.workDir, "check-ignore", "-q", "--", path)
	switch {
	case err == nil:
		return true, nil
	case code == 1:
		return false, nil
	default:
		return false, fmt.Errorf("failed to check ignore rules for %s: %w", path, err)
	}
}

// FetchPrune runs git fetch --all --prune.
func (r *CLIRunner) FetchPrune(ctx context.Context) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if _, err := r.run(ctx, "fetch", "--all", "--prune"); err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	return nil
}

// RemoteBranchExists checks refs/remotes/<remote>/<name>.
func (r *CLIRunner) RemoteBranchExists(ctx context.Context, remote, name string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	ref := fmt.Sprintf("refs/remotes/%s/%s", remote, name)
	_, code, err := runCommandStatus(ctx, r.workDir, "show-ref", "--verify", "--quiet", ref)
	switch {
	case err == nil:
		return true, nil
	case code == 1:
		return false, nil
	default:
		return false, fmt.Errorf("failed to check %s: %w", ref, err)
	}
}

// Checkout switches to branch.
func (r *CLIRunner) Checkout(ctx context.Context, branch string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if branch == "" {
		return fmt.Errorf("branch name cannot be empty: %w", gaerrors.ErrEmptyValue)
	}

	if _, err := r.run(ctx, "checkout", branch); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	return nil
}

// Pull merges remote/branch into the current branch.
func (r *CLIRunner) Pull(ctx context.Context, remote, branch string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if _, err := r.run(ctx, "pull", remote, branch); err != nil {
		return fmt.Errorf("failed to pull %s/%s: %w", remote, branch, err)
	}
	return nil
}

// MergedRemoteBranches lists branches of remote merged into remote/base.
// Branches of other remotes are not listed. Symbolic refs such as
// "origin/HEAD -> origin/main" are skipped.
func (r *CLIRunner) MergedRemoteBranches(ctx context.Context, remote, base string) ([]string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	output, err := r.run(ctx, "branch", "-r", "--merged", remote+"/"+base, "--list", remote+"/*")
	if err != nil {
		return nil, fmt.Errorf("failed to list merged branches: %w", err)
	}

	var branches []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, " -> ") {
			continue
		}
		branches = append(branches, line)
	}
	return branches, nil
}

// DeleteRemoteBranch runs git push <remote> --delete <name>.
func (r *CLIRunner) DeleteRemoteBranch(ctx context.Context, remote, name string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("branch name cannot be empty: %w", gaerrors.ErrEmptyValue)
	}

	if _, err := r.run(ctx, "push", remote, "--delete", name); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", remote, name, err)
	}
	return nil
}

func (r *CLIRunner) run(ctx context.Context, args ...string) (string, error) {
	return RunCommand(ctx, r.workDir, args...)
}

func parseGitStatus(output string) *Status {
	status := &Status{
		Staged:    []FileChange{},
		Unstaged:  []FileChange{},
		Untracked: []string{},
	}

	for _, line := range strings.Split(output, "\n") {
		if len(line) < 2 {
			continue
		}
		if strings.HasPrefix(line, "## ") {
			parseBranchLine(line, status)
			continue
		}
		if len(line) < 4 {
			continue
		}

		indexStatus := line[0]
		workTreeStatus := line[1]
		path := strings.TrimSpace(line[3:])

		var oldPath string
		if before, after, ok := strings.Cut(path, " -> "); ok {
			oldPath, path = before, after
		}

		if indexStatus == '?' && workTreeStatus == '?' {
			status.Untracked = append(status.Untracked, path)
			continue
		}
		if indexStatus != ' ' && indexStatus != '?' {
			status.Staged = append(status.Staged, FileChange{Path: path, Status: ChangeType(string(indexStatus)), OldPath: oldPath})
		}
		if workTreeStatus != ' ' && workTreeStatus != '?' {
			status.Unstaged = append(status.Unstaged, FileChange{Path: path, Status: ChangeType(string(workTreeStatus)), OldPath: oldPath})
		}
	}

	return status
}

// parseBranchLine parses "## main...origin/main [ahead 1, behind 2]".
func parseBranchLine(line string, status *Status) {
	line = strings.TrimPrefix(line, "## ")
	line = strings.TrimPrefix(line, "No commits yet on ")

	branch, remotePart, found := strings.Cut(line, "...")
	if !found {
		status.Branch = strings.TrimSpace(line)
		return
	}
	status.Branch = branch

	start := strings.Index(remotePart, " [")
	if start == -1 || !strings.HasSuffix(remotePart, "]") {
		return
	}
	info := remotePart[start+2 : len(remotePart)-1]
	status.Ahead = parseAheadBehind(info, "ahead ")
	status.Behind = parseAheadBehind(info, "behind ")
}

func parseAheadBehind(info, prefix string) int {
	idx := strings.Index(info, prefix)
	if idx == -1 {
		return 0
	}
	numStr := info[idx+len(prefix):]
	if commaIdx := strings.Index(numStr, ","); commaIdx != -1 {
		numStr = numStr[:commaIdx]
	}
	n, err := strconv.Atoi(strings.TrimSpace(numStr))
	if err != nil {
		return 0
	}
	return n
}
