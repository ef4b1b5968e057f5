package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/pipeline"
)

// runFlags holds flags for the run and single-stage commands.
type runFlags struct {
	all        bool
	showReport bool
}

func addRunCommand(root *cobra.Command, flags *GlobalFlags, env *environment) {
	rf := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [stage...]",
		Short: "Run one or more stages",
		Long: fmt.Sprintf(`Run the named stages in the order given. Every selected stage runs even
when an earlier one fails.

With --all the full sequence runs instead and stops at the first failure:
  %s

Examples:
  gitassist run build quality-gate
  gitassist run --all
  gitassist run --all --output json`, strings.Join(constants.CompositeStages(), " -> ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rf.all && len(args) > 0 {
				return errors.NewExitCode2Error(fmt.Errorf("%w: --all does not take stage names", errors.ErrUnrecognizedSelection))
			}
			if !rf.all && len(args) == 0 {
				return errors.NewExitCode2Error(fmt.Errorf("%w: name at least one stage or pass --all", errors.ErrUnrecognizedSelection))
			}

			names, mode := args, pipeline.ModeFreeForm
			if rf.all {
				names, mode = constants.CompositeStages(), pipeline.ModeComposite
			}
			return runStages(cmd, flags, env, rf, names, mode)
		},
	}
	cmd.Flags().BoolVar(&rf.all, "all", false, "run every stage in order and stop at the first failure")
	cmd.Flags().BoolVar(&rf.showReport, "show-report", false, "render generated Markdown reports after the run")

	root.AddCommand(cmd)
}

// stageCommand is a shortcut command for a single stage.
type stageCommand struct {
	use     string
	aliases []string
	short   string
	stage   string
}

func addStageCommands(root *cobra.Command, flags *GlobalFlags, env *environment) {
	for _, sc := range []stageCommand{
		{use: "build", short: "Build and package the project", stage: constants.StageBuild},
		{use: "quality", aliases: []string{"quality-gate"}, short: "Run the static analysis scan and evaluate the quality gate", stage: constants.StageQualityGate},
		{use: "vuln", aliases: []string{"vulnerability-gate"}, short: "Run the dependency scan and evaluate the vulnerability gate", stage: constants.StageVulnerabilityGate},
		{use: "commit", short: "Stage selected files and commit with a ticket id", stage: constants.StageCommit},
		{use: "push", short: "Push the current branch to the remote", stage: constants.StagePush},
	} {
		rf := &runFlags{}
		stage := sc.stage
		cmd := &cobra.Command{
			Use:     sc.use,
			Aliases: sc.aliases,
			Short:   sc.short,
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runStages(cmd, flags, env, rf, []string{stage}, pipeline.ModeFreeForm)
			},
		}
		if stage == constants.StageQualityGate || stage == constants.StageVulnerabilityGate {
			cmd.Flags().BoolVar(&rf.showReport, "show-report", false, "render the generated Markdown report")
		}
		root.AddCommand(cmd)
	}
}

func runStages(cmd *cobra.Command, flags *GlobalFlags, env *environment, rf *runFlags, names []string, mode pipeline.Mode) error {
	a, err := env.newApp(cmd.Context(), cmd, flags)
	if err != nil {
		return err
	}
	a.showReport = rf.showReport

	run, err := a.execute(cmd.Context(), names, mode)
	if err != nil {
		return err
	}
	return runError(run)
}
