package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitassist/internal/errors"
)

func addCleanBranchesCommand(root *cobra.Command, flags *GlobalFlags, env *environment) {
	root.AddCommand(&cobra.Command{
		Use:     "clean-branches",
		Aliases: []string{"clean"},
		Short:   "Delete remote branches already merged into the base branch",
		Long: `Fetch with prune, check out and pull the base branch (the first of
git.base_branches present on the remote), then list the remote branches
merged into it. After one confirmation each listed branch is deleted on the
remote. Base branches themselves are never listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.newApp(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			return a.cleanBranches(cmd.Context())
		},
	})
}

// cleanBranches runs the cleaner and prints its report.
func (a *app) cleanBranches(ctx context.Context) error {
	release, err := a.acquire()
	if err != nil {
		return err
	}
	defer release()

	a.rotateRunLog()

	report, err := a.cleaner.Clean(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("branch cleanup failed")
		return err
	}

	if a.format == OutputJSON {
		if err := a.out.JSON(report); err != nil {
			return err
		}
	}

	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%w: %d of %d branch deletions failed", errors.ErrGitOperation, failed, len(report.Deletions))
	}
	return nil
}

// rotateRunLog starts a fresh run log when rotation is wired.
func (a *app) rotateRunLog() {
	if a.rotateLog == nil {
		return
	}
	if err := a.rotateLog(); err != nil {
		a.logger.Warn().Err(err).Msg("could not rotate run log")
	}
}
