package stages

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/ctxutil"
	gaerrors "github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/git"
	"github.com/mrz1836/gitassist/internal/pipeline"
)

// Push pushes the current branch with upstream tracking. Protected branches
// need confirmation first.
type Push struct {
	deps Deps
}

var _ pipeline.Stage = (*Push)(nil)

// NewPush creates the push stage.
func NewPush(d Deps) *Push {
	return &Push{deps: d}
}

// Name returns "push".
func (s *Push) Name() string { return constants.StagePush }

// Run pushes once. A declined protected-branch push is a Failure with
// reason "cancelled".
func (s *Push) Run(ctx context.Context) (*pipeline.StageResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	cfg := s.deps.Config.Git
	pusher := git.NewPushRunner(s.deps.Git, git.WithPushLogger(s.deps.logger(s.Name())))

	result, err := pusher.Push(ctx, git.PushOptions{
		Remote:            cfg.Remote,
		SetUpstream:       true,
		ProtectedBranches: cfg.ProtectedBranches,
		ConfirmCallback: func(remote, branch string) (bool, error) {
			s.deps.Out.Warning(fmt.Sprintf("You are on a protected branch: %s", branch))
			return s.deps.Decision.Ask(fmt.Sprintf("Do you really want to push to '%s/%s'? (y/n)", remote, branch)), nil
		},
	})
	if errors.Is(err, gaerrors.ErrOperationCanceled) {
		s.deps.Out.Warning("Push cancelled")
		return pipeline.Failure("cancelled", err), nil
	}
	if err != nil {
		return nil, fmt.Errorf("push: %w", err)
	}

	s.deps.Out.Success(fmt.Sprintf("Pushed %s to %s", result.Branch, result.Upstream))
	return pipeline.Success("pushed " + result.Upstream), nil
}
