package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitassist/internal/errors"
	"github.com/mrz1836/gitassist/internal/testutil"
)

type mockExecutor struct {
	paths   map[string]bool
	outputs map[string]string
	runErr  map[string]error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.paths[file] {
		return "/usr/bin/" + file, nil
	}
	return "", testutil.ErrMockToolFailed
}

func (m *mockExecutor) Run(_ context.Context, name string, _ ...string) (string, error) {
	if err := m.runErr[name]; err != nil {
		return "", err
	}
	return m.outputs[name], nil
}

func TestToolDetector_Detect(t *testing.T) {
	exec := &mockExecutor{
		paths: map[string]bool{"git": true, "mvn": true, "jq": true, "snyk": true},
		outputs: map[string]string{
			"git":  "git version 2.43.0",
			"mvn":  "Apache Maven 3.5.4 (1edded0938998edf8bf061f1ceb3cfdeccf443fe)",
			"jq":   "jq-1.7.1",
			"snyk": "1.1290.0",
		},
	}

	result, err := NewToolDetectorWithExecutor(exec).Detect(context.Background())
	require.NoError(t, err)

	byName := make(map[string]Tool, len(result.Tools))
	for _, tool := range result.Tools {
		byName[tool.Name] = tool
	}

	require.Len(t, result.Tools, 5)
	assert.Equal(t, ToolStatusInstalled, byName["git"].Status)
	assert.Equal(t, "2.43.0", byName["git"].CurrentVersion)
	assert.Equal(t, ToolStatusOutdated, byName["mvn"].Status)
	assert.Equal(t, ToolStatusMissing, byName["sonar-scanner"].Status)
	assert.Equal(t, "1.7.1", byName["jq"].CurrentVersion)
	assert.Equal(t, "1.1290.0", byName["snyk"].CurrentVersion)

	assert.True(t, result.HasMissingRequired, "outdated maven is required")
	missing := result.MissingRequiredTools()
	require.Len(t, missing, 1)
	assert.Equal(t, "mvn", missing[0].Name)
	assert.Contains(t, FormatMissingToolsError(missing), "outdated (have 3.5.4, need 3.6.0)")
}

func TestToolDetector_DetectVersionFailure(t *testing.T) {
	exec := &mockExecutor{
		paths:  map[string]bool{"git": true},
		runErr: map[string]error{"git": testutil.ErrMockToolFailed},
	}

	result, err := NewToolDetectorWithExecutor(exec).Detect(context.Background())
	require.NoError(t, err)
	for _, tool := range result.Tools {
		if tool.Name == "git" {
			assert.Equal(t, ToolStatusInstalled, tool.Status)
			assert.Equal(t, "unknown", tool.CurrentVersion)
		}
	}
}

func TestToolDetector_Require(t *testing.T) {
	exec := &mockExecutor{paths: map[string]bool{"jq": true}}
	d := NewToolDetectorWithExecutor(exec)

	require.NoError(t, d.Require(context.Background(), "jq"))

	err := d.Require(context.Background(), "sonar-scanner", "jq", "snyk")
	require.ErrorIs(t, err, errors.ErrMissingRequiredTools)
	assert.Contains(t, err.Error(), "sonar-scanner, snyk")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, d.Require(ctx, "jq"), context.Canceled)
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, 0, CompareVersions("2.20.0", "2.20"))
	assert.Equal(t, -1, CompareVersions("1.6", "1.7"))
	assert.Equal(t, 1, CompareVersions("v3.9.6", "3.6.0"))
	assert.Equal(t, 1, CompareVersions("1.7rc1", "1.6"))
}

func TestToolStatus_String(t *testing.T) {
	assert.Equal(t, "installed", ToolStatusInstalled.String())
	assert.Equal(t, "missing", ToolStatusMissing.String())
	assert.Equal(t, "outdated", ToolStatusOutdated.String())
	assert.Equal(t, "unknown", ToolStatus(9).String())

	b, err := ToolStatusOutdated.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"outdated"`, string(b))
}
