package stages

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitassist/internal/clock"
	"github.com/mrz1836/gitassist/internal/config"
	"github.com/mrz1836/gitassist/internal/git"
	"github.com/mrz1836/gitassist/internal/process"
	"github.com/mrz1836/gitassist/internal/testutil"
	"github.com/mrz1836/gitassist/internal/tui"
)

// fakeGit is an in-memory git.Runner.
type fakeGit struct {
	git.Runner

	status      *git.Status
	afterAdd    *git.Status
	ignored     map[string]bool
	branch      string
	pushErr     error
	added       []string
	commits     []string
	pushes      []string
	statusCalls int
}

func (f *fakeGit) Status(context.Context) (*git.Status, error) {
	f.statusCalls++
	if f.statusCalls > 1 && f.afterAdd != nil {
		return f.afterAdd, nil
	}
	return f.status, nil
}

func (f *fakeGit) Add(_ context.Context, paths []string) error {
	f.added = append(f.added, paths...)
	return nil
}

func (f *fakeGit) Commit(_ context.Context, message string) error {
	f.commits = append(f.commits, message)
	return nil
}

func (f *fakeGit) IsIgnored(_ context.Context, path string) (bool, error) {
	return f.ignored[path], nil
}

func (f *fakeGit) CurrentBranch(context.Context) (string, error) {
	return f.branch, nil
}

func (f *fakeGit) Push(_ context.Context, remote, branch string, setUpstream bool) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	flag := ""
	if setUpstream {
		flag = "-u "
	}
	f.pushes = append(f.pushes, flag+remote+" "+branch)
	return nil
}

type fixture struct {
	deps     Deps
	runner   *testutil.MockCommandRunner
	git      *fakeGit
	decision *testutil.ScriptedDecision
	out      *bytes.Buffer
	live     *bytes.Buffer
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	dir := t.TempDir()
	f := &fixture{
		runner:   &testutil.MockCommandRunner{},
		git:      &fakeGit{status: &git.Status{}, ignored: map[string]bool{}, branch: "feature-x"},
		decision: &testutil.ScriptedDecision{},
		out:      &bytes.Buffer{},
		live:     &bytes.Buffer{},
		dir:      dir,
	}
	f.deps = Deps{
		Config:     config.DefaultConfig(),
		WorkDir:    dir,
		Invoker:    process.NewInvoker(process.WithRunner(f.runner)),
		Git:        f.git,
		Tools:      &fakeTools{},
		Decision:   f.decision,
		Out:        tui.NewTTYOutput(f.out),
		Logger:     zerolog.Nop(),
		Clock:      clock.Fixed{At: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)},
		LiveOutput: f.live,
	}
	return f
}

func (f *fixture) writeFile(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(f.dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func (f *fixture) readFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.dir, rel)) //#nosec G304 -- test path
	require.NoError(t, err)
	return string(data)
}

type fakeTools struct {
	err      error
	required []string
}

func (f *fakeTools) Require(_ context.Context, names ...string) error {
	f.required = append(f.required, names...)
	return f.err
}

func jacoco(missed, covered int) string {
	return `<?xml version="1.0"?><report name="demo">` +
		`<counter type="INSTRUCTION" missed="` + strconv.Itoa(missed) + `" covered="` + strconv.Itoa(covered) + `"/></report>`
}
