package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "generic", err: errors.New("boom"), want: ExitError},
		{name: "run failed", err: fmt.Errorf("%w: build", gaerrors.ErrRunFailed), want: ExitError},
		{name: "invalid output", err: fmt.Errorf("%w: xml", gaerrors.ErrInvalidOutputFormat), want: ExitInvalidInput},
		{name: "unknown stage", err: fmt.Errorf("%w: deploy", gaerrors.ErrUnrecognizedSelection), want: ExitInvalidInput},
		{name: "exit code 2 wrapper", err: gaerrors.NewExitCode2Error(errors.New("bad")), want: ExitInvalidInput},
		{name: "cobra unknown flag", err: errors.New("unknown flag: --nope"), want: ExitInvalidInput},
		{name: "cobra unknown command", err: errors.New(`unknown command "deploy" for "gitassist"`), want: ExitInvalidInput},
		{name: "cobra extra args", err: errors.New(`accepts 0 arg(s), received 1`), want: ExitInvalidInput},
		{name: "gate aborted", err: fmt.Errorf("quality gate: %w", gaerrors.ErrGateAborted), want: ExitError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCodeForError(tc.err))
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestBindGlobalFlags_EnvOverride(t *testing.T) {
	t.Setenv("GITASSIST_OUTPUT", "json")

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)
	require.NoError(t, cmd.ParseFlags(nil))

	v := viper.New()
	require.NoError(t, BindGlobalFlags(v, cmd))
	applyBoundFlags(v, flags)

	assert.Equal(t, OutputJSON, flags.Output)
	assert.False(t, flags.Verbose)
}

func TestBindGlobalFlags_FlagBeatsEnv(t *testing.T) {
	t.Setenv("GITASSIST_OUTPUT", "json")

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)
	require.NoError(t, cmd.ParseFlags([]string{"--output", "text"}))

	v := viper.New()
	require.NoError(t, BindGlobalFlags(v, cmd))
	applyBoundFlags(v, flags)

	assert.Equal(t, OutputText, flags.Output)
}
