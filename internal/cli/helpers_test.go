package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/gitassist/internal/branch"
	"github.com/mrz1836/gitassist/internal/clock"
	"github.com/mrz1836/gitassist/internal/config"
	"github.com/mrz1836/gitassist/internal/constants"
	"github.com/mrz1836/gitassist/internal/pipeline"
	"github.com/mrz1836/gitassist/internal/testutil"
	"github.com/mrz1836/gitassist/internal/tui"
)

// stubStage returns a fixed result and counts its runs.
type stubStage struct {
	mu     sync.Mutex
	name   string
	result *pipeline.StageResult
	err    error
	calls  int
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Run(context.Context) (*pipeline.StageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		return pipeline.Success("ok"), nil
	}
	res := *s.result
	return &res, nil
}

func (s *stubStage) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubStages returns one passing stub per canonical stage, keyed by name.
func stubStages() map[string]*stubStage {
	out := make(map[string]*stubStage)
	for _, name := range constants.CompositeStages() {
		out[name] = &stubStage{name: name}
	}
	return out
}

type fakeCleaner struct {
	report *branch.CleanupReport
	err    error
	calls  int
}

func (f *fakeCleaner) Clean(context.Context) (*branch.CleanupReport, error) {
	f.calls++
	return f.report, f.err
}

type fakeDetector struct {
	result *config.ToolDetectionResult
	err    error
}

func (f *fakeDetector) Detect(context.Context) (*config.ToolDetectionResult, error) {
	return f.result, f.err
}

type testApp struct {
	app      *app
	buf      *bytes.Buffer
	stages   map[string]*stubStage
	decision *testutil.ScriptedDecision
	cleaner  *fakeCleaner
	rotated  int
}

// newTestApp builds an app over stub stages that writes to a buffer.
func newTestApp(t *testing.T, format string) *testApp {
	t.Helper()

	buf := &bytes.Buffer{}
	ta := &testApp{
		buf:      buf,
		stages:   stubStages(),
		decision: &testutil.ScriptedDecision{},
		cleaner:  &fakeCleaner{report: &branch.CleanupReport{Base: "develop"}},
	}

	registry := pipeline.NewRegistry()
	for _, name := range constants.CompositeStages() {
		registry.Register(ta.stages[name])
	}

	fixed := clock.Fixed{At: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	ta.app = &app{
		cfg:      config.DefaultConfig(),
		logger:   zerolog.Nop(),
		w:        buf,
		format:   format,
		out:      tui.NewOutput(buf, format),
		decision: ta.decision,
		registry: registry,
		cleaner:  ta.cleaner,
		rotateLog: func() error {
			ta.rotated++
			return nil
		},
		pipelineOpts: []pipeline.Option{
			pipeline.WithClock(fixed),
			pipeline.WithIDGenerator(func() string { return "run-1" }),
		},
	}
	return ta
}

// testEnvironment wires commands to ta and a silent logger.
func testEnvironment(ta *testApp, detector toolDetector) *environment {
	return &environment{
		initLogger: func(*GlobalFlags) zerolog.Logger { return zerolog.Nop() },
		newApp: func(_ context.Context, cmd *cobra.Command, flags *GlobalFlags) (*app, error) {
			ta.app.format = flags.Output
			ta.app.w = cmd.OutOrStdout()
			ta.app.out = tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			return ta.app, nil
		},
		newTools: func() toolDetector { return detector },
	}
}

// executeRoot runs the root command with args against ta.
func executeRoot(t *testing.T, ta *testApp, detector toolDetector, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"}, testEnvironment(ta, detector))
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func branchDeletion(name string, deleted bool) branch.Deletion {
	d := branch.Deletion{Branch: name, Deleted: deleted}
	if !deleted {
		d.Error = "remote rejected"
	}
	return d
}
