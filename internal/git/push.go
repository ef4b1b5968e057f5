package git

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitassist/internal/ctxutil"
	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// PushOptions configures the push operation.
type PushOptions struct {
	// Remote is the remote to push to (default: "origin").
	Remote string
	// Branch is the branch to push. Empty means the current branch.
	Branch string
	// SetUpstream sets the upstream tracking reference if true.
	SetUpstream bool
	// ProtectedBranches require ConfirmCallback to approve the push.
	ProtectedBranches []string
	// ConfirmCallback is asked before pushing a protected branch.
	// Returning false cancels the push with ErrOperationCanceled.
	ConfirmCallback func(remote, branch string) (bool, error)
}

// PushResult contains the outcome of a push operation.
type PushResult struct {
	Success   bool
	Branch    string
	Upstream  string
	Protected bool
	// Failure is set when the push was refused.
	Failure PushFailure
}

// PushFailure names why git refused a push.
type PushFailure string

// Push failure kinds. PushFailureUnknown keeps git's own error.
const (
	PushFailureAuth     PushFailure = "authentication"
	PushFailureNetwork  PushFailure = "network"
	PushFailureRejected PushFailure = "rejected"
	PushFailureUnknown  PushFailure = "unknown"
)

type pushFailureRule struct {
	kind     PushFailure
	sentinel error
	markers  []string
}

// pushFailureRules are tried in order. Authentication comes first since
// "permission denied" usually arrives with "could not read from remote
// repository".
//
//nolint:gochecknoglobals // immutable lookup table
var pushFailureRules = []pushFailureRule{
	{
		kind:     PushFailureAuth,
		sentinel: gaerrors.ErrPushAuthFailed,
		markers: []string{
			"authentication failed", "authentication required", "could not read username",
			"permission denied", "invalid username or password", "bad credentials",
			"access denied", "invalid token", "token expired",
		},
	},
	{
		kind:     PushFailureNetwork,
		sentinel: gaerrors.ErrPushNetworkFailed,
		markers: []string{
			"could not resolve host", "connection refused", "connection timed out",
			"operation timed out", "network is unreachable", "no route to host",
			"unable to access", "failed to connect", "could not read from remote repository",
		},
	},
	{
		kind:     PushFailureRejected,
		sentinel: gaerrors.ErrPushRejected,
		markers: []string{
			"non-fast-forward", "updates were rejected", "fetch first",
			"tip of your current branch is behind", "remote contains work",
		},
	},
}

// ClassifyPushFailure matches git's push output, case-insensitively,
// against the known failure markers.
func ClassifyPushFailure(output string) PushFailure {
	if rule, ok := matchPushFailure(output); ok {
		return rule.kind
	}
	return PushFailureUnknown
}

func matchPushFailure(output string) (pushFailureRule, bool) {
	lower := strings.ToLower(output)
	for _, rule := range pushFailureRules {
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule, true
			}
		}
	}
	return pushFailureRule{}, false
}

// pushFailureError wraps err with the sentinel of its failure kind so
// callers can print an actionable hint. Unknown failures are returned as is.
func pushFailureError(err error) (PushFailure, error) {
	rule, ok := matchPushFailure(err.Error())
	if !ok {
		return PushFailureUnknown, err
	}
	return rule.kind, fmt.Errorf("%w: %w", rule.sentinel, err)
}

// PushRunner pushes the working branch with protected-branch confirmation.
// Pushes are attempted once.
type PushRunner struct {
	runner Runner
	logger zerolog.Logger
}

// PushRunnerOption configures a PushRunner.
type PushRunnerOption func(*PushRunner)

// WithPushLogger sets the logger for push operations.
func WithPushLogger(logger zerolog.Logger) PushRunnerOption {
	return func(pr *PushRunner) {
		pr.logger = logger
	}
}

// NewPushRunner creates a PushRunner with the given git runner.
func NewPushRunner(runner Runner, opts ...PushRunnerOption) *PushRunner {
	pr := &PushRunner{
		runner: runner,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(pr)
	}
	return pr
}

// Push pushes opts.Branch (or the current branch) to opts.Remote.
func (p *PushRunner) Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.Branch == "" {
		branch, err := p.runner.CurrentBranch(ctx)
		if err != nil {
			return nil, err
		}
		opts.Branch = branch
	}

	result := &PushResult{Branch: opts.Branch, Protected: slices.Contains(opts.ProtectedBranches, opts.Branch)}

	if result.Protected {
		if err := p.confirm(opts); err != nil {
			return result, err
		}
	}

	p.logger.Info().
		Str("remote", opts.Remote).
		Str("branch", opts.Branch).
		Bool("set_upstream", opts.SetUpstream).
		Msg("pushing to remote")

	if err := p.runner.Push(ctx, opts.Remote, opts.Branch, opts.SetUpstream); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var pushErr error
		result.Failure, pushErr = pushFailureError(err)
		p.logger.Warn().Err(err).Str("failure", string(result.Failure)).Msg("push failed")
		return result, pushErr
	}

	result.Success = true
	if opts.SetUpstream {
		result.Upstream = fmt.Sprintf("%s/%s", opts.Remote, opts.Branch)
	}
	p.logger.Info().Str("upstream", result.Upstream).Msg("push succeeded")
	return result, nil
}

func (p *PushRunner) confirm(opts PushOptions) error {
	if opts.ConfirmCallback == nil {
		return fmt.Errorf("push to protected branch %s needs confirmation: %w", opts.Branch, gaerrors.ErrOperationCanceled)
	}
	ok, err := opts.ConfirmCallback(opts.Remote, opts.Branch)
	if err != nil {
		return fmt.Errorf("failed to confirm push: %w", err)
	}
	if !ok {
		p.logger.Info().Str("branch", opts.Branch).Msg("push to protected branch declined")
		return gaerrors.ErrOperationCanceled
	}
	return nil
}
