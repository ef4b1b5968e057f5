package git

import "context"

// Runner defines the git operations used by the commit, push, and branch
// cleanup workflows. All operations run in the runner's working directory.
type Runner interface {
	// Status returns staged, unstaged, and untracked files.
	Status(ctx context.Context) (*Status, error)

	// Add stages the given paths. An empty list stages everything.
	Add(ctx context.Context, paths []string) error

	// Commit creates a commit with the given message.
	Commit(ctx context.Context, message string) error

	// Push pushes branch to remote, optionally setting upstream tracking.
	Push(ctx context.Context, remote, branch string, setUpstream bool) error

	// CurrentBranch returns the checked out branch. Detached HEAD is an error.
	CurrentBranch(ctx context.Context) (string, error)

	// IsIgnored reports whether path is excluded by .gitignore rules.
	IsIgnored(ctx context.Context, path string) (bool, error)

	// FetchPrune fetches every remote and prunes deleted remote branches.
	FetchPrune(ctx context.Context) error

	// RemoteBranchExists reports whether refs/remotes/<remote>/<name> exists.
	RemoteBranchExists(ctx context.Context, remote, name string) (bool, error)

	// Checkout switches to an existing branch.
	Checkout(ctx context.Context, branch string) error

	// Pull merges remote/branch into the current branch.
	Pull(ctx context.Context, remote, branch string) error

	// MergedRemoteBranches lists remote-tracking branches fully merged into
	// remote/base, with the remote prefix still attached (origin/feature-a).
	MergedRemoteBranches(ctx context.Context, remote, base string) ([]string, error)

	// DeleteRemoteBranch deletes name on remote.
	DeleteRemoteBranch(ctx context.Context, remote, name string) error
}
