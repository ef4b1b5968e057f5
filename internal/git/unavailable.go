package git

import "context"

// UnavailableRunner stands in for a Runner when the working directory is not
// a repository. Every operation returns the error it was built with, so
// stages that never touch git still run.
type UnavailableRunner struct {
	Err error
}

var _ Runner = (*UnavailableRunner)(nil)

// Status implements Runner.
func (u *UnavailableRunner) Status(context.Context) (*Status, error) { return nil, u.Err }

// Add implements Runner.
func (u *UnavailableRunner) Add(context.Context, []string) error { return u.Err }

// Commit implements Runner.
func (u *UnavailableRunner) Commit(context.Context, string) error { return u.Err }

// Push implements Runner.
func (u *UnavailableRunner) Push(context.Context, string, string, bool) error { return u.Err }

// CurrentBranch implements Runner.
func (u *UnavailableRunner) CurrentBranch(context.Context) (string, error) { return "", u.Err }

// IsIgnored implements Runner.
func (u *UnavailableRunner) IsIgnored(context.Context, string) (bool, error) { return false, u.Err }

// FetchPrune implements Runner.
func (u *UnavailableRunner) FetchPrune(context.Context) error { return u.Err }

// RemoteBranchExists implements Runner.
func (u *UnavailableRunner) RemoteBranchExists(context.Context, string, string) (bool, error) {
	return false, u.Err
}

// Checkout implements Runner.
func (u *UnavailableRunner) Checkout(context.Context, string) error { return u.Err }

// Pull implements Runner.
func (u *UnavailableRunner) Pull(context.Context, string, string) error { return u.Err }

// MergedRemoteBranches implements Runner.
func (u *UnavailableRunner) MergedRemoteBranches(context.Context, string, string) ([]string, error) {
	return nil, u.Err
}

// DeleteRemoteBranch implements Runner.
func (u *UnavailableRunner) DeleteRemoteBranch(context.Context, string, string) error { return u.Err }
