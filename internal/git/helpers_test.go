package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// gitCmd runs git in dir and fails the test on error.
func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.CommandContext(context.Background(), "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

// setupTestRepo creates a repository whose default branch is main.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gitCmd(t, dir, "init", "-q")
	gitCmd(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	gitCmd(t, dir, "config", "user.email", "test@gitassist.local")
	gitCmd(t, dir, "config", "user.name", "gitassist Test")
	gitCmd(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func createFile(t *testing.T, repoPath, filename, content string) {
	t.Helper()
	path := filepath.Join(repoPath, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func commitAll(t *testing.T, repoPath, message string) {
	t.Helper()
	gitCmd(t, repoPath, "add", "-A")
	gitCmd(t, repoPath, "commit", "-q", "-m", message)
}

// setupRepoWithRemote creates a working repository with an "origin" bare
// remote holding main.
func setupRepoWithRemote(t *testing.T) (work, remote string) {
	t.Helper()
	remote = filepath.Join(t.TempDir(), "remote.git")
	gitCmd(t, filepath.Dir(remote), "init", "-q", "--bare", remote)

	work = setupTestRepo(t)
	createFile(t, work, "README.md", "# demo\n")
	commitAll(t, work, "initial commit")
	gitCmd(t, work, "remote", "add", "origin", remote)
	gitCmd(t, work, "push", "-q", "-u", "origin", "main")
	return work, remote
}
