package cli

import (
	stderrors "errors"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/gitassist/internal/errors"
)

// Process exit codes. A run with a failed stage exits ExitError like any
// other fault; ExitInvalidInput means the command line itself was wrong.
const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitInvalidInput = 2
)

// Formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// envPrefix namespaces the environment variables that stand in for flags.
const envPrefix = "GITASSIST"

// GlobalFlags are the persistent flags shared by every command.
type GlobalFlags struct {
	Output  string
	Verbose bool
	Quiet   bool
}

// AddGlobalFlags registers --output, --verbose and --quiet on cmd.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", OutputText,
		"run summary format ("+strings.Join(ValidOutputFormats(), "|")+")")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "log debug detail, including every external command")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "log warnings and errors only")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags lets GITASSIST_OUTPUT, GITASSIST_VERBOSE and
// GITASSIST_QUIET stand in for the root flags. A flag given on the command
// line still wins.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v.BindPFlags(cmd.Root().PersistentFlags())
}

// applyBoundFlags copies the resolved values back into flags.
func applyBoundFlags(v *viper.Viper, flags *GlobalFlags) {
	flags.Output = v.GetString("output")
	flags.Verbose = v.GetBool("verbose")
	flags.Quiet = v.GetBool("quiet")
}

// ValidOutputFormats lists the --output values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat reports whether format is one of ValidOutputFormats.
func IsValidOutputFormat(format string) bool {
	return slices.Contains(ValidOutputFormats(), format)
}

// invalidInputErrors are the sentinels that mean the operator asked for
// something that does not exist.
//
//nolint:gochecknoglobals // immutable lookup table
var invalidInputErrors = []error{
	errors.ErrInvalidOutputFormat,
	errors.ErrUnrecognizedSelection,
}

// cobraUsageMarkers match cobra's flag and argument parse errors, which
// carry no sentinel.
//
//nolint:gochecknoglobals // immutable lookup table
var cobraUsageMarkers = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"flag needs an argument",
	"invalid argument",
	"if any flags in the group",
	"required flag",
	"arg(s), received",
}

// ExitCodeForError maps the error returned by Execute to a process exit code.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case isInvalidInput(err):
		return ExitInvalidInput
	default:
		return ExitError
	}
}

func isInvalidInput(err error) bool {
	if errors.IsExitCode2Error(err) {
		return true
	}
	for _, target := range invalidInputErrors {
		if stderrors.Is(err, target) {
			return true
		}
	}
	msg := err.Error()
	return slices.ContainsFunc(cobraUsageMarkers, func(marker string) bool {
		return strings.Contains(msg, marker)
	})
}
