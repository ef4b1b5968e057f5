package testutil

import (
	"context"
	"io"
	"strings"
	"sync"
)

// CommandResponse is a canned result for MockCommandRunner.
type CommandResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
	// Live is written to the live output writer, if one is given.
	Live string
}

// MockCommandRunner returns canned responses keyed by a substring of the
// command line. The first matching key in Order wins; commands with no
// match succeed with empty output.
type MockCommandRunner struct {
	mu        sync.Mutex
	Order     []string
	Responses map[string]CommandResponse
	Calls     []string
	WorkDirs  []string
}

// On registers a response for commands containing key.
func (m *MockCommandRunner) On(key string, resp CommandResponse) *MockCommandRunner {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Responses == nil {
		m.Responses = make(map[string]CommandResponse)
	}
	if _, ok := m.Responses[key]; !ok {
		m.Order = append(m.Order, key)
	}
	m.Responses[key] = resp
	return m
}

// Run records the call and returns the matching response.
func (m *MockCommandRunner) Run(ctx context.Context, workDir, command string, liveOut io.Writer) (string, string, int, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, command)
	m.WorkDirs = append(m.WorkDirs, workDir)
	var resp CommandResponse
	for _, key := range m.Order {
		if strings.Contains(command, key) {
			resp = m.Responses[key]
			break
		}
	}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", "", -1, err
	}
	if liveOut != nil && resp.Live != "" {
		_, _ = io.WriteString(liveOut, resp.Live)
	}
	return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Err
}

// CallCount returns how many commands were run.
func (m *MockCommandRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
