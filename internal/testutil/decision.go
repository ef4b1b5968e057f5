package testutil

import (
	"strings"
	"sync"

	gaerrors "github.com/mrz1836/gitassist/internal/errors"
)

// ScriptedDecision answers prompts from fixed scripts and records every
// question it was asked. An exhausted Answers script answers no; an
// exhausted Inputs script returns ErrMenuCanceled.
type ScriptedDecision struct {
	mu      sync.Mutex
	Answers []bool
	Inputs  []string

	Asked    []string
	Prompted []string
}

// Ask returns the next scripted answer.
func (s *ScriptedDecision) Ask(question string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Asked = append(s.Asked, question)
	if len(s.Answers) == 0 {
		return false
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer
}

// Input returns the next scripted line.
func (s *ScriptedDecision) Input(prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Prompted = append(s.Prompted, prompt)
	if len(s.Inputs) == 0 {
		return "", gaerrors.ErrMenuCanceled
	}
	value := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	return strings.TrimSpace(value), nil
}

// AskedCount returns how many yes/no questions were asked.
func (s *ScriptedDecision) AskedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Asked)
}
