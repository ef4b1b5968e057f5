package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/gitassist/internal/config"
	"github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/tui"
)

func addDoctorCommand(root *cobra.Command, flags *GlobalFlags, env *environment) {
	root.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check that the external tools are installed",
		Long: `Probe git, mvn, sonar-scanner, jq, and snyk and report whether each one
is installed, missing, or older than the supported version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			return runDoctor(cmd.Context(), out, flags.Output, env.newTools())
		},
	})
}

func runDoctor(ctx context.Context, out tui.Output, format string, detector toolDetector) error {
	result, err := detector.Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect tools: %w", err)
	}

	if format == OutputJSON {
		if err := out.JSON(result); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(result.Tools))
		for _, tool := range result.Tools {
			rows = append(rows, []string{
				tool.Name,
				toolStatusCell(tool),
				tool.CurrentVersion,
				tool.UsedBy,
			})
		}
		out.Table([]string{"TOOL", "STATUS", "VERSION", "USED BY"}, rows)
	}

	missing := result.MissingRequiredTools()
	if len(missing) == 0 {
		if format != OutputJSON {
			out.Success("All required tools are installed")
		}
		return nil
	}
	if format != OutputJSON {
		out.Warning(config.FormatMissingToolsError(missing))
	}
	return errors.ErrMissingRequiredTools
}

func toolStatusCell(tool config.Tool) string {
	switch tool.Status {
	case config.ToolStatusInstalled:
		return tui.OutcomeIcon("success") + " " + tool.Status.String()
	case config.ToolStatusMissing:
		if !tool.Required {
			return tui.OutcomeIcon("skipped") + " " + tool.Status.String()
		}
		return tui.OutcomeIcon("failure") + " " + tool.Status.String()
	default:
		return tui.OutcomeIcon("failure") + " " + tool.Status.String()
	}
}
