package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fake secrets are assembled at runtime so secret scanners do not flag the test file.
func fakeSonarToken() string { return "squ_" + "0123456789abcdefTESTONLY0123" }
func fakeSnykToken() string  { return "1234abcd-" + "TEST-ONLY-0000-feedfacecafe" }
func fakeGitHubPAT() string  { return "ghp_" + "xxxxxxxxxxTESTONLYxxxxxxxxxx" }

func TestFilterSensitiveValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains string
		absent   string
	}{
		{
			name:   "sonar token",
			input:  "token " + fakeSonarToken(),
			absent: fakeSonarToken(),
		},
		{
			name:     "scanner login property",
			input:    "sonar-scanner -Dsonar.login=" + fakeSonarToken() + " -X",
			contains: "sonar-scanner " + RedactedValue + " -X",
		},
		{
			name:   "snyk token assignment",
			input:  "SNYK_TOKEN=" + fakeSnykToken(),
			absent: fakeSnykToken(),
		},
		{
			name:     "remote url credentials",
			input:    "https://dev:" + "hunter2hunter2" + "@git.example.com/repo.git",
			contains: "https" + RedactedValue + "git.example.com/repo.git",
		},
		{
			name:   "github token",
			input:  "push with " + fakeGitHubPAT(),
			absent: fakeGitHubPAT(),
		},
		{
			name:     "plain text untouched",
			input:    "mvn clean install",
			contains: "mvn clean install",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := FilterSensitiveValue(tc.input)
			if tc.contains != "" {
				assert.Contains(t, got, tc.contains)
			}
			if tc.absent != "" {
				assert.NotContains(t, got, tc.absent)
				assert.Contains(t, got, RedactedValue)
			}
		})
	}
}

func TestContainsSensitiveData(t *testing.T) {
	t.Parallel()
	assert.True(t, ContainsSensitiveData("-Dsonar.token=abc"))
	assert.False(t, ContainsSensitiveData("git push -u origin feature-a"))
}

func TestSafeValue(t *testing.T) {
	t.Parallel()
	assert.Equal(t, RedactedValue, SafeValue("SONAR_TOKEN", "anything"))
	assert.Equal(t, RedactedValue, SafeValue("snyk_token", "anything"))
	assert.Equal(t, "mvn -v", SafeValue("command", "mvn -v"))
}

func TestFilteringWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fw := NewFilteringWriter(&buf)

	input := []byte("running sonar-scanner -Dsonar.login=" + fakeSonarToken() + "\n")
	n, err := fw.Write(input)
	require.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.NotContains(t, buf.String(), fakeSonarToken())
	assert.Contains(t, buf.String(), RedactedValue)
}

func TestSensitiveDataHook(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(NewSensitiveDataHook())

	logger.Info().Msg("SNYK_TOKEN=" + fakeSnykToken())
	assert.Contains(t, buf.String(), `"contains_filtered_data":true`)

	buf.Reset()
	logger.Info().Msg("build finished")
	assert.NotContains(t, buf.String(), "contains_filtered_data")
}
