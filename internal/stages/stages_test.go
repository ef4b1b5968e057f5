package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitassist/internal/constants"
	gaerrors "github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/gate"
	"github.com/mrz1836/gitassist/internal/git"
	"github.com/mrz1836/gitassist/internal/pipeline"
	"github.com/mrz1836/gitassist/internal/testutil"
)

const (
	qualityReportDir = ".gitassist/quality-reports"
	vulnReportDir    = ".gitassist/vulnerability-reports"
)

func TestAll_CanonicalOrder(t *testing.T) {
	f := newFixture(t)
	names := make([]string, 0, 5)
	for _, s := range All(f.deps) {
		names = append(names, s.Name())
	}
	assert.Equal(t, constants.CompositeStages(), names)
	assert.Equal(t, constants.CompositeStages(), Registry(f.deps).Names())
}

func TestBuild(t *testing.T) {
	t.Run("success streams output", func(t *testing.T) {
		f := newFixture(t)
		f.runner.On("mvn", testutil.CommandResponse{Live: "[INFO] BUILD SUCCESS\n"})

		res, err := NewBuild(f.deps).Run(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Succeeded())
		assert.Equal(t, []string{"mvn clean install"}, f.runner.Calls)
		assert.Equal(t, []string{f.dir}, f.runner.WorkDirs)
		assert.Contains(t, f.live.String(), "BUILD SUCCESS")
	})

	t.Run("non-zero exit fails", func(t *testing.T) {
		f := newFixture(t)
		f.runner.On("mvn", testutil.CommandResponse{ExitCode: 1, Err: testutil.ErrMockToolFailed})

		_, err := NewBuild(f.deps).Run(context.Background())
		require.ErrorIs(t, err, gaerrors.ErrExternalToolFailure)
	})
}

func setupQuality(t *testing.T, f *fixture, missed, covered int, scannerLog string) {
	t.Helper()
	f.writeFile(t, constants.ScannerProjectFile, "sonar.projectKey=demo\n")
	f.writeFile(t, constants.DefaultCoverageSource, jacoco(missed, covered))
	f.runner.On("sonar-scanner", testutil.CommandResponse{Stdout: scannerLog})
}

func TestQualityGate_Passes(t *testing.T) {
	f := newFixture(t)
	setupQuality(t, f, 19, 81, "INFO ok\nseverity=MAJOR one\n")
	tools := &fakeTools{}
	f.deps.Tools = tools

	res, err := NewQualityGate(f.deps).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Succeeded())
	require.NotNil(t, res.Verdict)
	assert.True(t, res.Verdict.Passed)
	assert.Equal(t, gate.DecisionAutomatic, res.Decision)
	assert.Empty(t, f.decision.Asked)
	assert.Equal(t, []string{"sonar-scanner", "jq"}, tools.required)

	summary := f.readFile(t, filepath.Join(qualityReportDir, constants.QualitySummaryFileName))
	assert.Contains(t, summary, "81.00%")
	assert.Equal(t, "INFO ok\nseverity=MAJOR one\n", f.readFile(t, filepath.Join(qualityReportDir, constants.ScannerVerboseLogFileName)))
	assert.Contains(t, f.readFile(t, filepath.Join(qualityReportDir, constants.CoverageReportFileName)), "INSTRUCTION")
	assert.Len(t, res.Artifacts, 2)
}

func TestQualityGate_LowCoverageAsks(t *testing.T) {
	tests := []struct {
		name    string
		answers []bool
		success bool
	}{
		{"operator continues", []bool{true}, true},
		{"operator declines", []bool{false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			setupQuality(t, f, 25, 75, "")
			f.decision.Answers = tt.answers

			res, err := NewQualityGate(f.deps).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.success, res.Succeeded())
			require.Len(t, f.decision.Asked, 1)
			assert.Contains(t, f.decision.Asked[0], "coverage 75.00% below 80.00%")
			assert.Equal(t, gate.SeverityWarning, res.Verdict.Severity)
			if !tt.success {
				require.ErrorIs(t, res.Err, gaerrors.ErrGateAborted)
			}
		})
	}
}

func TestQualityGate_Prerequisites(t *testing.T) {
	t.Run("missing project file", func(t *testing.T) {
		f := newFixture(t)
		_, err := NewQualityGate(f.deps).Run(context.Background())
		require.ErrorIs(t, err, gaerrors.ErrReportMissing)
		assert.Zero(t, f.runner.CallCount())
	})

	t.Run("missing tools", func(t *testing.T) {
		f := newFixture(t)
		f.writeFile(t, constants.ScannerProjectFile, "")
		f.deps.Tools = &fakeTools{err: gaerrors.ErrMissingRequiredTools}
		_, err := NewQualityGate(f.deps).Run(context.Background())
		require.ErrorIs(t, err, gaerrors.ErrMissingRequiredTools)
		assert.Zero(t, f.runner.CallCount())
	})

	t.Run("missing coverage report", func(t *testing.T) {
		f := newFixture(t)
		f.writeFile(t, constants.ScannerProjectFile, "")
		f.runner.On("sonar-scanner", testutil.CommandResponse{Stdout: "scan log"})
		_, err := NewQualityGate(f.deps).Run(context.Background())
		require.ErrorIs(t, err, gaerrors.ErrReportMissing)
		assert.Equal(t, "scan log", f.readFile(t, filepath.Join(qualityReportDir, constants.ScannerVerboseLogFileName)))
	})
}

func TestQualityGate_IgnoresCoverageFromEarlierRun(t *testing.T) {
	f := newFixture(t)
	setupQuality(t, f, 5, 95, "")

	res, err := NewQualityGate(f.deps).Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Succeeded())

	require.NoError(t, os.Remove(filepath.Join(f.dir, constants.DefaultCoverageSource)))

	_, err = NewQualityGate(f.deps).Run(context.Background())
	require.ErrorIs(t, err, gaerrors.ErrReportMissing)
	assert.NoFileExists(t, filepath.Join(f.dir, qualityReportDir, constants.CoverageReportFileName))
}

func TestVulnerabilityGate(t *testing.T) {
	t.Run("no vulnerabilities passes", func(t *testing.T) {
		f := newFixture(t)
		f.runner.On("snyk", testutil.CommandResponse{Stdout: `{"vulnerabilities":[]}`})

		res, err := NewVulnerabilityGate(f.deps).Run(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Succeeded())
		assert.Contains(t, f.readFile(t, filepath.Join(vulnReportDir, constants.VulnerabilityReportFileName)), "No vulnerabilities found.")
	})

	t.Run("critical aborts without asking", func(t *testing.T) {
		f := newFixture(t)
		f.runner.On("snyk", testutil.CommandResponse{
			Stdout:   `{"vulnerabilities":[{"severity":"critical","title":"RCE"},{"severity":"low","title":"Minor"}]}`,
			ExitCode: 1,
			Err:      testutil.ErrMockToolFailed,
		})
		f.decision.Answers = []bool{true}

		res, err := NewVulnerabilityGate(f.deps).Run(context.Background())
		require.NoError(t, err)
		assert.False(t, res.Succeeded())
		assert.Equal(t, gate.SeverityCritical, res.Verdict.Severity)
		require.ErrorIs(t, res.Err, gaerrors.ErrGateAborted)
		assert.Empty(t, f.decision.Asked)
		assert.Contains(t, f.out.String(), "CRITICAL")

		md := f.readFile(t, filepath.Join(vulnReportDir, constants.VulnerabilityReportFileName))
		assert.Contains(t, md, "RCE")
		assert.Contains(t, md, "Minor")
	})

	t.Run("high confirmed proceeds", func(t *testing.T) {
		f := newFixture(t)
		f.runner.On("snyk", testutil.CommandResponse{Stdout: `[{"vulnerabilities":[{"severity":"high"}]}]`, ExitCode: 1})
		f.decision.Answers = []bool{true}

		res, err := NewVulnerabilityGate(f.deps).Run(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Succeeded())
		assert.Equal(t, gate.DecisionConfirmed, res.Decision)
		assert.Equal(t, []string{"Continue despite high vulnerabilities? (y/n)"}, f.decision.Asked)
	})

	t.Run("malformed output fails", func(t *testing.T) {
		f := newFixture(t)
		f.runner.On("snyk", testutil.CommandResponse{Stdout: "not json"})

		_, err := NewVulnerabilityGate(f.deps).Run(context.Background())
		require.ErrorIs(t, err, gaerrors.ErrReportMalformed)
	})

	t.Run("scanner error fails", func(t *testing.T) {
		f := newFixture(t)
		f.runner.On("snyk", testutil.CommandResponse{
			Stdout:   `{"ok":false,"error":"Authentication failed. Please check the API token on https://snyk.io"}`,
			ExitCode: 2,
		})

		_, err := NewVulnerabilityGate(f.deps).Run(context.Background())
		require.ErrorIs(t, err, gaerrors.ErrReportMalformed)
		assert.Contains(t, err.Error(), "Authentication failed")
	})
}

func TestCommit_StagesChosenFilesAndCommits(t *testing.T) {
	f := newFixture(t)
	f.git.status = &git.Status{
		Untracked: []string{"new.txt", "build.log"},
		Unstaged:  []git.FileChange{{Path: "App.java", Status: git.ChangeModified}},
	}
	f.git.afterAdd = &git.Status{Staged: []git.FileChange{{Path: "new.txt"}, {Path: "App.java"}}}
	f.git.ignored["build.log"] = true
	f.decision.Answers = []bool{true, true}
	f.decision.Inputs = []string{"BAD-1", "FINDATA-42", "Fix login"}

	res, err := NewCommit(f.deps).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Succeeded())
	assert.Equal(t, []string{"Add untracked file 'new.txt'? (y/n)", "Add modified file 'App.java'? (y/n)"}, f.decision.Asked)
	assert.Equal(t, []string{"new.txt", "App.java"}, f.git.added)
	assert.Equal(t, []string{"FINDATA-42: Fix login"}, f.git.commits)
	assert.Equal(t, "Try again:", f.decision.Prompted[1])
	assert.Contains(t, f.out.String(), "Invalid ticket")
}

func TestCommit_NothingToCommit(t *testing.T) {
	f := newFixture(t)
	f.git.status = &git.Status{Untracked: []string{"a.txt"}}
	f.decision.Answers = []bool{false}

	res, err := NewCommit(f.deps).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Succeeded())
	assert.Equal(t, "nothing to commit", res.Reason)
	assert.Empty(t, f.git.added)
	assert.Empty(t, f.git.commits)
	assert.Empty(t, f.decision.Prompted)
}

func TestCommit_TicketAttemptsExhausted(t *testing.T) {
	f := newFixture(t)
	f.git.status = &git.Status{Staged: []git.FileChange{{Path: "x"}}}
	f.decision.Inputs = []string{"a", "b", "FINDATA-", "FINDATA-1"}

	_, err := NewCommit(f.deps).Run(context.Background())
	require.ErrorIs(t, err, gaerrors.ErrInvalidTicket)
	assert.Len(t, f.decision.Prompted, constants.MaxTicketAttempts)
	assert.Empty(t, f.git.commits)
}

func TestCommit_EmptyMessage(t *testing.T) {
	f := newFixture(t)
	f.git.status = &git.Status{Staged: []git.FileChange{{Path: "x"}}}
	f.decision.Inputs = []string{"FINDATA-7", "   "}

	_, err := NewCommit(f.deps).Run(context.Background())
	require.ErrorIs(t, err, gaerrors.ErrEmptyValue)
	assert.Empty(t, f.git.commits)
}

func TestCommit_CanceledPrompt(t *testing.T) {
	f := newFixture(t)
	f.git.status = &git.Status{Staged: []git.FileChange{{Path: "x"}}}

	_, err := NewCommit(f.deps).Run(context.Background())
	require.ErrorIs(t, err, gaerrors.ErrOperationCanceled)
}

func TestCommit_CustomPrefix(t *testing.T) {
	f := newFixture(t)
	f.deps.Config.Git.TicketPrefix = "OPS-"
	f.git.status = &git.Status{Staged: []git.FileChange{{Path: "x"}}}
	f.decision.Inputs = []string{"OPS-9", "Rotate keys"}

	_, err := NewCommit(f.deps).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Enter Jira Ticket (e.g., OPS-123):", f.decision.Prompted[0])
	assert.Equal(t, []string{"OPS-9: Rotate keys"}, f.git.commits)
}

func TestValidTicket(t *testing.T) {
	assert.True(t, validTicket("FINDATA-1", "FINDATA-"))
	assert.False(t, validTicket("FINDATA-", "FINDATA-"))
	assert.False(t, validTicket("findata-1", "FINDATA-"))
	assert.False(t, validTicket("FINDATA-1 x", "FINDATA-"))
}

func TestPush(t *testing.T) {
	t.Run("feature branch pushes with upstream", func(t *testing.T) {
		f := newFixture(t)

		res, err := NewPush(f.deps).Run(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Succeeded())
		assert.Equal(t, []string{"-u origin feature-x"}, f.git.pushes)
		assert.Empty(t, f.decision.Asked)
	})

	t.Run("protected branch declined is cancelled", func(t *testing.T) {
		f := newFixture(t)
		f.git.branch = "main"

		res, err := NewPush(f.deps).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, pipeline.OutcomeFailure, res.Outcome)
		assert.Equal(t, "cancelled", res.Reason)
		require.ErrorIs(t, res.Err, gaerrors.ErrOperationCanceled)
		assert.Empty(t, f.git.pushes)
		assert.Equal(t, []string{"Do you really want to push to 'origin/main'? (y/n)"}, f.decision.Asked)
	})

	t.Run("protected branch confirmed pushes", func(t *testing.T) {
		f := newFixture(t)
		f.git.branch = "develop"
		f.decision.Answers = []bool{true}

		res, err := NewPush(f.deps).Run(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Succeeded())
		assert.Equal(t, []string{"-u origin develop"}, f.git.pushes)
	})

	t.Run("auth failure is classified", func(t *testing.T) {
		f := newFixture(t)
		f.git.pushErr = fmt.Errorf("remote: Permission denied (publickey): %w", testutil.ErrMockGit)

		_, err := NewPush(f.deps).Run(context.Background())
		require.ErrorIs(t, err, gaerrors.ErrPushAuthFailed)
	})
}

func TestStages_CanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range All(f.deps) {
		_, err := s.Run(ctx)
		require.ErrorIs(t, err, context.Canceled, s.Name())
	}
	assert.Zero(t, f.runner.CallCount())
}
