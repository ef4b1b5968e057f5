// Package process runs external tools on behalf of the pipeline stages.
//
// Command lines come from project or user configuration and are run through
// sh -c so pipes and redirects work, the same trust model as a Makefile.
package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// CommandRunner executes a shell command line and captures its output.
type CommandRunner interface {
	// Run executes command in workDir. A non-nil err with exitCode > 0 means
	// the command ran and exited non-zero; exitCode -1 means it never started.
	Run(ctx context.Context, workDir, command string, liveOut io.Writer) (stdout, stderr string, exitCode int, err error)
}

// ShellRunner implements CommandRunner with sh -c.
type ShellRunner struct{}

// Run executes command with sh -c. When liveOut is non-nil both streams are
// copied to it while being captured.
func (r *ShellRunner) Run(ctx context.Context, workDir, command string, liveOut io.Writer) (stdout, stderr string, exitCode int, err error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workDir

	var outBuf, errBuf bytes.Buffer
	if liveOut != nil {
		cmd.Stdout = io.MultiWriter(&outBuf, liveOut)
		cmd.Stderr = io.MultiWriter(&errBuf, liveOut)
	} else {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	}

	err = cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	return outBuf.String(), errBuf.String(), exitCode, err
}

var _ CommandRunner = (*ShellRunner)(nil)
