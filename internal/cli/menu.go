package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/pipeline"
	"github.com/mrz1836/gitassist/internal/tui"
)

// menuPrompt is shown before every selection.
const menuPrompt = "Enter your choice(s) separated by spaces:"

type menuActionKind int

const (
	actionStages menuActionKind = iota
	actionRunAll
	actionClean
	actionExit
)

// menuAction is one step of a parsed menu selection.
type menuAction struct {
	kind   menuActionKind
	stages []string
}

// menuOption is a numbered entry in the menu.
type menuOption struct {
	key   string
	label string
	kind  menuActionKind
	stage string
}

func menuOptions() []menuOption {
	return []menuOption{
		{key: "1", label: "Build", kind: actionStages, stage: constants.StageBuild},
		{key: "2", label: "Quality gate", kind: actionStages, stage: constants.StageQualityGate},
		{key: "3", label: "Vulnerability gate", kind: actionStages, stage: constants.StageVulnerabilityGate},
		{key: "4", label: "Commit", kind: actionStages, stage: constants.StageCommit},
		{key: "5", label: "Push", kind: actionStages, stage: constants.StagePush},
		{key: "6", label: "Run all (build to push, stop on failure)", kind: actionRunAll},
		{key: "7", label: "Clean merged remote branches", kind: actionClean},
		{key: "8", label: "Exit", kind: actionExit},
	}
}

// renderMenu draws the numbered options inside a box.
func renderMenu() string {
	opts := menuOptions()
	lines := make([]string, 0, len(opts))
	for _, opt := range opts {
		lines = append(lines, fmt.Sprintf("%s. %s", opt.key, opt.label))
	}
	return tui.NewBoxStyle().Render("gitassist", strings.Join(lines, "\n"))
}

// parseSelection turns a line of space separated tokens into actions.
// Tokens are menu numbers or stage names. Adjacent stage tokens are grouped
// into one free-form run; unknown tokens join that group so the pipeline
// records them as warnings. Parsing stops at the first exit token.
func parseSelection(line string) []menuAction {
	byKey := make(map[string]menuOption)
	for _, opt := range menuOptions() {
		byKey[opt.key] = opt
	}

	var actions []menuAction
	var group []string
	flush := func() {
		if len(group) > 0 {
			actions = append(actions, menuAction{kind: actionStages, stages: group})
			group = nil
		}
	}

	for _, token := range strings.Fields(line) {
		opt, ok := byKey[token]
		if !ok {
			switch strings.ToLower(token) {
			case "exit", "quit", "q":
				opt, ok = byKey["8"], true
			case "all":
				opt, ok = byKey["6"], true
			case "clean":
				opt, ok = byKey["7"], true
			}
		}

		switch {
		case !ok:
			group = append(group, token)
		case opt.kind == actionStages:
			group = append(group, opt.stage)
		default:
			flush()
			actions = append(actions, menuAction{kind: opt.kind})
			if opt.kind == actionExit {
				return actions
			}
		}
	}
	flush()
	return actions
}

// menu runs the interactive loop until the operator exits or input ends.
func (a *app) menu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(a.w, renderMenu())
		line, err := a.decision.Input(menuPrompt)
		if err != nil {
			if stderrors.Is(err, errors.ErrMenuCanceled) {
				return nil
			}
			return err
		}

		actions := parseSelection(line)
		if len(actions) == 0 {
			a.out.Warning("no option selected")
			continue
		}

		if a.dispatch(ctx, actions) {
			a.out.Info("Goodbye.")
			return nil
		}
	}
}

// dispatch performs the actions in order and reports whether the operator
// asked to exit. Failures are printed and never end the loop.
func (a *app) dispatch(ctx context.Context, actions []menuAction) bool {
	for _, action := range actions {
		switch action.kind {
		case actionStages:
			if _, err := a.execute(ctx, action.stages, pipeline.ModeFreeForm); err != nil {
				a.out.Error(err)
			}
		case actionRunAll:
			if _, err := a.execute(ctx, constants.CompositeStages(), pipeline.ModeComposite); err != nil {
				a.out.Error(err)
			}
		case actionClean:
			if err := a.cleanBranches(ctx); err != nil {
				a.out.Error(err)
			}
		case actionExit:
			return true
		}
	}
	return false
}

func addMenuCommand(root *cobra.Command, flags *GlobalFlags, env *environment) {
	root.AddCommand(&cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Long: `Open the numbered menu. Enter one or more options separated by spaces,
for example "1 2 3" or "build quality-gate". Stage failures are reported
and the menu is shown again until you choose 8 (exit).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenuCommand(cmd, flags, env)
		},
	})
}

func runMenuCommand(cmd *cobra.Command, flags *GlobalFlags, env *environment) error {
	a, err := env.newApp(cmd.Context(), cmd, flags)
	if err != nil {
		return err
	}
	return a.menu(cmd.Context())
}
