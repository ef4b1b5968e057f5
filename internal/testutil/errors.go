// Package testutil provides testing utilities for gitassist.
//
// This package contains mock errors and test doubles used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockToolFailed simulates an external tool that could not be started.
	ErrMockToolFailed = errors.New("tool failed to start")

	// ErrMockGit simulates a failing git command.
	ErrMockGit = errors.New("git command failed")

	// ErrMockNetwork simulates a network failure.
	ErrMockNetwork = errors.New("network error")

	// ErrMockStage simulates a stage that fails unexpectedly.
	ErrMockStage = errors.New("stage exploded")
)
