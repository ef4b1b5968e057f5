// Package git provides the git CLI operations gitassist needs for committing,
// pushing, and cleaning up merged remote branches.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// RunCommand executes a git command in workDir and returns its trimmed stdout.
// Failures are wrapped with ErrGitOperation and include stderr.
func RunCommand(ctx context.Context, workDir string, args ...string) (string, error) {
	out, _, err := runCommandStatus(ctx, workDir, args...)
	return out, err
}

// runCommandStatus is RunCommand that also reports the exit code, for
// commands such as check-ignore and show-ref --quiet that answer through it.
func runCommandStatus(ctx context.Context, workDir string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //#nosec G204 -- args are constructed internally
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return strings.TrimSpace(stdout.String()), 0, nil
	}

	if ctx.Err() != nil {
		return "", -1, ctx.Err()
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	if stderr.Len() > 0 {
		return "", exitCode, fmt.Errorf("git %s failed: %s: %w", args[0], strings.TrimSpace(stderr.String()), gaerrors.ErrGitOperation)
	}
	return "", exitCode, fmt.Errorf("git %s failed: %w", args[0], gaerrors.ErrGitOperation)
}
